package service

import "strings"

// NormalizeTags 將逗號分隔字串轉為去空白、小寫、去重且保留首次出現順序的標籤
func NormalizeTags(csv string) []string {
	tags := []string{}
	seen := make(map[string]struct{})
	for _, raw := range strings.Split(csv, ",") {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

package chat

import (
	"regexp"
	"strings"
)

var productKeywords = []string{"sản phẩm", "giá", "mua", "tìm", "có", "bán", "hàng", "loại", "product", "price", "buy"}

var categoryKeywords = []string{"loại", "danh mục", "category"}

// productNamePattern captures what follows "tìm/có/bán/giá" up to a trailing
// question particle, e.g. "có iphone 15 không" -> "iphone 15".
var productNamePattern = regexp.MustCompile(`(?i)(?:tìm|có|bán|giá)\s+(.+?)(?:\s+(?:không|ko|nào|gì)|$)`)

func containsAny(msg string, words []string) bool {
	lower := strings.ToLower(msg)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func wantsProducts(msg string) bool { return containsAny(msg, productKeywords) }

func wantsCategories(msg string) bool { return containsAny(msg, categoryKeywords) }

// productName returns the product name the customer asked about, or "".
func productName(msg string) string {
	m := productNamePattern.FindStringSubmatch(msg)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

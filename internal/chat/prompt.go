package chat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wichananm65/storefront-backend/internal/pricing"
	"github.com/wichananm65/storefront-backend/internal/product"
	"github.com/wichananm65/storefront-backend/internal/producttype"
)

const maxPromptProducts = 20

const storePolicy = `Bạn là một trợ lý AI thông minh của một cửa hàng thương mại điện tử.

Nhiệm vụ của bạn:
- Hỗ trợ khách hàng về sản phẩm, đặt hàng, thanh toán, giao hàng
- Giải đáp thắc mắc về chính sách đổi trả, bảo hành
- Tư vấn sản phẩm phù hợp với nhu cầu khách hàng
- Hướng dẫn cách mua hàng, theo dõi đơn hàng

Nguyên tắc:
- Lịch sự, thân thiện, trả lời ngắn gọn nhưng đủ ý
- Khi giới thiệu sản phẩm, luôn kèm link xem chi tiết
- Ưu tiên tiếng Việt trừ khi khách hàng dùng ngôn ngữ khác

Thông tin cửa hàng:
- Thời gian giao hàng: 2-5 ngày làm việc
- Đổi trả trong vòng 7 ngày
- Hỗ trợ 24/7
- Thanh toán: COD, VNPay`

// catalogContext is what the assistant may know about the shop right now.
// Nil fields mean the lookup was skipped or failed.
type catalogContext struct {
	types    []producttype.ProductType
	products *product.Page
}

func buildSystemPrompt(cc catalogContext) string {
	var b strings.Builder
	b.WriteString(storePolicy)

	if len(cc.types) > 0 {
		fmt.Fprintf(&b, "\n\n📋 DANH MỤC SẢN PHẨM HIỆN CÓ (%d loại):\n", len(cc.types))
		for i, t := range cc.types {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%d. %s", i+1, t.Name)
		}
	}

	if cc.products != nil && len(cc.products.Products) > 0 {
		products := cc.products.Products
		total := cc.products.TotalCount
		if total == 0 {
			total = len(products)
		}
		if len(products) > maxPromptProducts {
			products = products[:maxPromptProducts]
		}
		fmt.Fprintf(&b, "\n\n🛍️ DANH SÁCH SẢN PHẨM HIỆN CÓ (%d sản phẩm):\n", total)
		for i, p := range products {
			if i > 0 {
				b.WriteString("\n\n")
			}
			writeProduct(&b, i+1, p)
		}
		b.WriteString("\n\nLưu ý: dựa vào danh sách này để trả lời chính xác về giá, tình trạng kho và đưa link cụ thể.")
	}
	return b.String()
}

func writeProduct(b *strings.Builder, n int, p product.Product) {
	fmt.Fprintf(b, "%d. %s\n", n, p.Name)
	fmt.Fprintf(b, "   - Giá: %s₫", formatVND(p.Price))
	if p.Discount > 0 {
		final := pricing.EffectivePrice(p.Price, p.Discount).Round(0).IntPart()
		fmt.Fprintf(b, " (Giảm %d%% → %s₫)", p.Discount, formatVND(final))
	}
	typeName := p.TypeName()
	if typeName == "" {
		typeName = "Chưa phân loại"
	}
	fmt.Fprintf(b, "\n   - Loại: %s\n", typeName)
	if p.CountInStock > 0 {
		fmt.Fprintf(b, "   - Tình trạng: Còn %d sản phẩm\n", p.CountInStock)
	} else {
		b.WriteString("   - Tình trạng: Hết hàng\n")
	}
	fmt.Fprintf(b, "   - Đã bán: %d sản phẩm\n", p.Sold)
	if p.AverageRating > 0 {
		fmt.Fprintf(b, "   - Đánh giá: %s/5 ⭐\n", strconv.FormatFloat(p.AverageRating, 'f', -1, 64))
	} else {
		b.WriteString("   - Đánh giá: Chưa có đánh giá\n")
	}
	fmt.Fprintf(b, "   - Link: /product/%s", p.Slug)
}

// formatVND groups thousands with dots: 20000000 -> "20.000.000".
func formatVND(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var out []byte
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

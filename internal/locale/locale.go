// Package locale holds the fixed user-facing texts: headers for product
// answers, the no-match and nothing-to-elaborate replies, the "ask for more"
// hint and the fallback. Every lookup falls back to English.
package locale

import (
	"strings"

	"github.com/saboothailand/support-bot/internal/domain"
)

const (
	DefaultPhone   = "02-159-9880"
	DefaultContact = "02-159-9880, 085-595-9565"
)

var priceHeaders = map[domain.Language]string{
	domain.English:    "💰 Product prices:",
	domain.Thai:       "💰 ราคาสินค้า:",
	domain.Korean:     "💰 제품 가격:",
	domain.Japanese:   "💰 商品価格:",
	domain.Chinese:    "💰 产品价格:",
	domain.Spanish:    "💰 Precios de productos:",
	domain.German:     "💰 Produktpreise:",
	domain.French:     "💰 Prix des produits :",
	domain.Vietnamese: "💰 Giá sản phẩm:",
	domain.Russian:    "💰 Цены на товары:",
	domain.Arabic:     "💰 أسعار المنتجات:",
}

var listHeaders = map[domain.Language]string{
	domain.English:    "🛍️ Product list:",
	domain.Thai:       "🛍️ รายการสินค้า:",
	domain.Korean:     "🛍️ 제품 목록:",
	domain.Japanese:   "🛍️ 商品一覧:",
	domain.Chinese:    "🛍️ 产品列表:",
	domain.Spanish:    "🛍️ Lista de productos:",
	domain.German:     "🛍️ Produktliste:",
	domain.French:     "🛍️ Liste des produits :",
	domain.Vietnamese: "🛍️ Danh sách sản phẩm:",
	domain.Russian:    "🛍️ Список товаров:",
	domain.Arabic:     "🛍️ قائمة المنتجات:",
}

var contactLabels = map[domain.Language]string{
	domain.English:    "More info",
	domain.Thai:       "ข้อมูลเพิ่มเติม",
	domain.Korean:     "자세한 정보",
	domain.Japanese:   "詳しくは",
	domain.Chinese:    "详细信息",
	domain.Spanish:    "Más información",
	domain.German:     "Weitere Infos",
	domain.French:     "Plus d'infos",
	domain.Vietnamese: "Thông tin thêm",
	domain.Russian:    "Подробнее",
	domain.Arabic:     "لمزيد من المعلومات",
}

// {phone} is replaced with the configured number.
var noProducts = map[domain.Language]string{
	domain.English:  "❌ Sorry, no products found matching your search.\n\n🔍 Try other keywords like: soap, bath bomb, scrub, perfume\n📞 Or contact us directly: {phone}",
	domain.Thai:     "❌ ขออภัยค่ะ ไม่พบผลิตภัณฑ์ที่ตรงกับคำค้นหาของคุณ\n\n🔍 ลองค้นหาด้วยคำอื่น เช่น: สบู่, บาธบอม, สครับ, น้ำหอม\n📞 หรือติดต่อเราโดยตรง: {phone}",
	domain.Korean:   "❌ 죄송합니다. 검색어와 일치하는 제품을 찾을 수 없습니다.\n\n🔍 다른 키워드로 시도해보세요: 비누, 배스봄, 스크럽, 향수\n📞 또는 직접 문의: {phone}",
	domain.Japanese: "❌ 申し訳ございません。検索条件に一致する商品が見つかりませんでした。\n\n🔍 他のキーワードでお試しください: 石鹸、バスボム、スクラブ、香水\n📞 またはお電話で: {phone}",
	domain.Chinese:  "❌ 抱歉，没有找到符合搜索条件的产品。\n\n🔍 请尝试其他关键词: 香皂、沐浴球、磨砂膏、香水\n📞 或直接联系: {phone}",
}

var nothingToElaborate = map[domain.Language]string{
	domain.English:  "There is no previous conversation to expand on. Please ask your question again.",
	domain.Thai:     "ยังไม่มีบทสนทนาก่อนหน้าให้อธิบายเพิ่มเติมค่ะ กรุณาถามคำถามอีกครั้ง",
	domain.Korean:   "이전 대화 내용이 없어 더 자세한 정보를 드릴 수 없습니다. 궁금한 점을 다시 질문해주세요.",
	domain.Japanese: "詳しくご説明できる以前の会話がありません。もう一度ご質問ください。",
	domain.Chinese:  "没有可以详细说明的之前对话，请重新提问。",
}

var moreInfoHints = map[domain.Language]string{
	domain.Thai:       "💬 หากต้องการข้อมูลเพิ่มเติมหรือรายละเอียดมากขึ้น กรุณาพิมพ์ 'รายละเอียดเพิ่มเติม' หรือ 'ข้อมูลเพิ่มเติม' ค่ะ",
	domain.Korean:     "💬 더 자세한 정보나 추가 설명이 필요하시면 '자세한 설명' 또는 '더 알려주세요'라고 말씀해 주세요",
	domain.Japanese:   "💬 詳細情報や追加説明が必要でしたら「詳しく教えて」または「もっと詳しく」とお聞かせください",
	domain.Chinese:    "💬 如需更详细信息或更多说明，请输入「详细说明」或「更多信息」",
	domain.Spanish:    "💬 Para obtener información más detallada o explicación adicional, escriba 'más detalles' o 'cuéntame más'",
	domain.German:     "💬 Für detailliertere Informationen oder zusätzliche Erklärungen, tippen Sie 'mehr Details' oder 'erzählen Sie mir mehr'",
	domain.French:     "💬 Pour plus d'informations détaillées ou d'explications supplémentaires, tapez 'plus de détails' ou 'dites-moi plus'",
	domain.Vietnamese: "💬 Để biết thêm thông tin chi tiết hoặc giải thích bổ sung, vui lòng nhập 'chi tiết hơn' hoặc 'cho tôi biết thêm'",
	domain.Russian:    "💬 Для получения более подробной информации или дополнительных объяснений, напишите 'подробнее' или 'расскажите больше'",
}

// Texts renders the fixed replies with the shop's phone numbers.
type Texts struct {
	Phone   string // single number for short messages
	Contact string // full contact list for product answers
}

// New fills empty fields with the defaults.
func New(phone, contact string) Texts {
	if strings.TrimSpace(phone) == "" {
		phone = DefaultPhone
	}
	if strings.TrimSpace(contact) == "" {
		contact = DefaultContact
	}
	return Texts{Phone: phone, Contact: contact}
}

func pick(m map[domain.Language]string, lang domain.Language) string {
	if s, ok := m[lang]; ok {
		return s
	}
	return m[domain.English]
}

// Header is the price or list header for a product answer.
func (Texts) Header(ft domain.FileType, lang domain.Language) string {
	if ft == domain.FilePrice {
		return pick(priceHeaders, lang)
	}
	return pick(listHeaders, lang)
}

// ContactLine is appended to product answers.
func (t Texts) ContactLine(lang domain.Language) string {
	return "📞 " + pick(contactLabels, lang) + ": " + t.Contact
}

// NoProducts is the reply when a product search finds nothing.
func (t Texts) NoProducts(lang domain.Language) string {
	return strings.ReplaceAll(pick(noProducts, lang), "{phone}", t.Phone)
}

// NothingToElaborate answers a follow-up with no previous turn.
func (Texts) NothingToElaborate(lang domain.Language) string {
	return pick(nothingToElaborate, lang)
}

// MoreInfoHint is added under truncated answers. English gets none.
func (Texts) MoreInfoHint(lang domain.Language) string {
	return moreInfoHints[lang]
}

// Fallback is the English reply used whenever normal processing fails.
func (t Texts) Fallback() string {
	return "I apologize, we're experiencing technical difficulties. Please contact us directly at " + t.Phone + ". Thank you! 😊"
}

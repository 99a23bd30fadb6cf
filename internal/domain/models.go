package domain

// FabricOffering is a priced raw-material option selectable as part of a
// custom tailoring order. PriorPrice is only meaningful when it is greater
// than Price; it renders as a struck-through "was" price with a discount
// percentage.
type FabricOffering struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	PriorPrice  float64 `json:"prior_price,omitempty"`
	Description string  `json:"description"`
	Image       string  `json:"image,omitempty"`
}

// DiscountPercent returns the displayed discount for a fabric with a prior
// price, or 0 when no discount applies.
func (f FabricOffering) DiscountPercent() int {
	if f.PriorPrice <= f.Price || f.PriorPrice <= 0 {
		return 0
	}
	return int((f.PriorPrice-f.Price)/f.PriorPrice*100 + 0.5)
}

type FabricCreateRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	PriorPrice  float64 `json:"prior_price,omitempty"`
	Description string  `json:"description"`
	Image       string  `json:"image,omitempty"`
}

type FabricUpdateRequest struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	PriorPrice  *float64 `json:"prior_price,omitempty"`
	Description *string  `json:"description,omitempty"`
	Image       *string  `json:"image,omitempty"`
}

// ReadymadeProduct is a pre-made garment sold by unit quantity, independent
// of custom tailoring.
type ReadymadeProduct struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image,omitempty"`
	Category    string  `json:"category"`
}

type ProductCreateRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image,omitempty"`
	Category    string  `json:"category"`
}

type ProductUpdateRequest struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

// Product categories form a closed set for display partitioning.
const (
	CategoryThobes  = "thobes"
	CategoryJackets = "jackets"
	CategoryShawls  = "shawls"
)

// ProductCategories lists the categories in display order.
var ProductCategories = []string{CategoryThobes, CategoryJackets, CategoryShawls}

// CategoryLabels maps product categories to their display labels.
var CategoryLabels = map[string]string{
	CategoryThobes:  "الثياب الجاهزة",
	CategoryJackets: "الأكوات والبشوت",
	CategoryShawls:  "الشيلان والأشمغة",
}

// CartLine is a ready-made product reference plus a quantity. A line with
// quantity 0 never persists in the cart.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// MeasurementKeys is the fixed set of measurement fields, in the order they
// appear on the form and in the outbound message.
var MeasurementKeys = []string{
	"height",
	"shoulder",
	"armLength",
	"chestWidth",
	"neck",
	"armWidth",
	"cuffLength",
	"stepWidth",
}

// MeasurementLabels maps measurement keys to their customer-facing labels.
var MeasurementLabels = map[string]string{
	"height":     "الطول",
	"shoulder":   "الكتف",
	"armLength":  "طول اليد",
	"chestWidth": "وسع الصدر",
	"neck":       "الرقبة",
	"armWidth":   "وسط اليد",
	"cuffLength": "طول الكبك",
	"stepWidth":  "وسع الخطوة",
}

// Style field names accepted by the customization collector.
const (
	StyleFieldNeck   = "neckType"
	StyleFieldCuff   = "cuffType"
	StyleFieldChest  = "chestType"
	StyleFieldTailor = "tailorType"
)

// Style option sets. These are soft UI affordances: the collector records
// whatever string it is given, last write wins.
var (
	NeckTypes   = []string{"قلاب ملكي", "قلاب فرنسي", "قلاب دائري", "سادة مربع", "سادة دائري", "صيني"}
	CuffTypes   = []string{"كبك قماش", "كبك حشو مربع", "كبك حشو دائري", "سادة بدون زرار"}
	ChestTypes  = []string{"كبس ظاهر", "كبس مخفي", "زرار مخفي", "سحاب"}
	TailorTypes = []string{"قطري", "سعودي", "حجازي", "عماني", "كويتي"}
)

// CustomizationSpec is the in-progress custom-tailoring specification.
// Measurement values are kept as strings: only presence matters downstream.
type CustomizationSpec struct {
	Measurements map[string]string `json:"measurements"`
	NeckType     string            `json:"neck_type"`
	CuffType     string            `json:"cuff_type"`
	ChestType    string            `json:"chest_type"`
	TailorType   string            `json:"tailor_type"`
	Notes        string            `json:"notes"`
}

// NewCustomizationSpec returns an empty spec with an initialized
// measurement map.
func NewCustomizationSpec() CustomizationSpec {
	return CustomizationSpec{Measurements: make(map[string]string)}
}

// HasActiveOrder reports whether a tailoring order is in progress: at least
// one measurement present, or a neck type, or a cuff type. Chest and tailor
// type alone do not count and do not trigger the service fee.
func (c CustomizationSpec) HasActiveOrder() bool {
	for _, v := range c.Measurements {
		if v != "" {
			return true
		}
	}
	return c.NeckType != "" || c.CuffType != ""
}

// OrderSummary is derived, never stored; GrandTotal is recomputed from
// current state on every call.
type OrderSummary struct {
	TailoringBasePrice  float64 `json:"tailoring_base_price"`
	TailoringServiceFee float64 `json:"tailoring_service_fee"`
	ReadymadeTotal      float64 `json:"readymade_total"`
	GrandTotal          float64 `json:"grand_total"`
}

// Payment methods offered by the storefront.
const (
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
	PaymentCard     = "card"
)

// PaymentMethodLabels maps payment methods to the labels printed in the
// outbound message.
var PaymentMethodLabels = map[string]string{
	PaymentCash:     "نقدي",
	PaymentTransfer: "تحويل بنكي",
	PaymentCard:     "بطاقة",
}

type MeasurementSetRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type StyleSetRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type NotesSetRequest struct {
	Notes string `json:"notes"`
}

type FabricSelectRequest struct {
	FabricID string `json:"fabric_id"`
}

type CartAddRequest struct {
	ProductID string `json:"product_id"`
}

type CartAdjustRequest struct {
	Delta int `json:"delta"`
}

type DispatchRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	PaymentMethod string `json:"payment_method"`
	DeliveryDate  string `json:"delivery_date,omitempty"`
}

type DispatchResponse struct {
	OrderID    string  `json:"order_id"`
	HandoffURL string  `json:"handoff_url"`
	Message    string  `json:"message"`
	GrandTotal float64 `json:"grand_total"`
}

type GatePinRequest struct {
	PIN string `json:"pin"`
}

type GateStatus struct {
	Unlocked        bool `json:"unlocked"`
	PinPromptOpen   bool `json:"pin_prompt_open"`
	TapsUntilPrompt int  `json:"taps_until_prompt"`
}

// FabricView is a FabricOffering plus its derived display discount.
type FabricView struct {
	FabricOffering
	DiscountPercent int `json:"discount_percent,omitempty"`
}

type ProductGroupView struct {
	Category string             `json:"category"`
	Label    string             `json:"label"`
	Items    []ReadymadeProduct `json:"items"`
}

type CatalogResponse struct {
	Fabrics  []FabricView       `json:"fabrics"`
	Products []ProductGroupView `json:"products"`
}

// CartLineView is a cart line resolved against the catalog for display.
type CartLineView struct {
	Product   ReadymadeProduct `json:"product"`
	Quantity  int              `json:"quantity"`
	LineTotal float64          `json:"line_total"`
}

// SessionView is the storefront-facing snapshot of one session.
type SessionView struct {
	SessionID      string            `json:"session_id"`
	Spec           CustomizationSpec `json:"spec"`
	SelectedFabric *FabricView       `json:"selected_fabric,omitempty"`
	Cart           []CartLineView    `json:"cart"`
	Summary        OrderSummary      `json:"summary"`
	Gate           GateStatus        `json:"gate"`
	HasReceipt     bool              `json:"has_receipt"`
	Confirmed      bool              `json:"confirmed"`
	OrderID        string            `json:"order_id,omitempty"`
}

// Milestone and ShopStat back the static shop-history section.
type Milestone struct {
	Year        string `json:"year"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ShopStat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type HistoryResponse struct {
	Milestones []Milestone `json:"milestones"`
	Stats      []ShopStat  `json:"stats"`
}

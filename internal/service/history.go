package service

import "yarmouktailor/backend/internal/domain"

// historyData is the shop's fixed timeline and stats. Static content, not
// privileged-editable.
func historyData() *domain.HistoryResponse {
	return &domain.HistoryResponse{
		Milestones: []domain.Milestone{
			{Year: "2002", Title: "البداية", Description: "تأسيس محل خياط اليرموك بأيادٍ سعودية وخبرة في فن التفصيل التقليدي"},
			{Year: "2007", Title: "التوسع", Description: "توسيع المحل وإضافة قسم الأقمشة الفاخرة المستوردة من أرقى المصانع العالمية"},
			{Year: "2012", Title: "التميّز", Description: "حصولنا على ثقة أكثر من ٥٠٠٠ عميل دائم وسمعة مميزة في عالم الخياطة"},
			{Year: "2018", Title: "التطوير", Description: "إدخال أحدث تقنيات الخياطة والتفصيل مع الحفاظ على اللمسة اليدوية التقليدية"},
			{Year: "2024", Title: "الرقمنة", Description: "إطلاق الموقع الإلكتروني لتسهيل طلبات التفصيل والملابس الجاهزة"},
		},
		Stats: []domain.ShopStat{
			{Value: "+22", Label: "سنة خبرة"},
			{Value: "+10,000", Label: "عميل سعيد"},
			{Value: "+50,000", Label: "ثوب مفصّل"},
			{Value: "#1", Label: "في المنطقة"},
		},
	}
}

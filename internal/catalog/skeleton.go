package catalog

import "assessment-service/internal/domain"

// Skeleton returns the built-in default catalog. It keeps the service
// usable before, or entirely without, remote data: the adapter overlays
// remote descriptions, criteria, and questions on top of this copy and
// falls back to it wholesale on any fetch or parse failure.
//
// Domain IDs double as the remote sheet names, so they stay in English
// while titles and content are bilingual.
func Skeleton() []domain.Domain {
	return []domain.Domain{
		{
			ID:          "Governance",
			Title:       "الحوكمة — Governance",
			Description: "مدى وضوح أدوار ومسؤوليات حوكمة التقنية وآليات اتخاذ القرار والرقابة على مستوى المنظمة.",
			Sections: []domain.Section{
				{
					Title: "الهيكل والمساءلة",
					Criteria: []domain.Criterion{
						{Text: "وجود لجنة حوكمة معتمدة ذات صلاحيات واضحة."},
						{Text: "توثيق أدوار ومسؤوليات اتخاذ القرار التقني."},
					},
				},
			},
			Questions: []domain.Question{
				{Text: "هل توجد لجنة حوكمة معتمدة تجتمع بشكل دوري؟"},
				{Text: "هل تُوثق قرارات الحوكمة ويُتابع تنفيذها؟"},
				{Text: "هل تُراجع سياسات الحوكمة سنوياً على الأقل؟"},
			},
		},
		{
			ID:          "Strategy",
			Title:       "الاستراتيجية — Strategy",
			Description: "مدى ارتباط الخطط التقنية بالأهداف الاستراتيجية للمنظمة ووضوح خارطة الطريق.",
			Sections: []domain.Section{
				{
					Title: "التخطيط والمواءمة",
					Criteria: []domain.Criterion{
						{Text: "وجود استراتيجية تقنية معتمدة ومرتبطة بأهداف المنظمة."},
						{Text: "مراجعة دورية لخارطة الطريق التقنية."},
					},
				},
			},
			Questions: []domain.Question{
				{Text: "هل توجد استراتيجية تقنية معتمدة من الإدارة العليا؟"},
				{Text: "هل تُقاس مبادرات الاستراتيجية بمؤشرات أداء واضحة؟"},
				{Text: "هل تُحدّث خارطة الطريق عند تغير أولويات المنظمة؟"},
			},
		},
		{
			ID:          "Technology & Data",
			Title:       "التقنية والبيانات — Technology & Data",
			Description: "جاهزية البنية التقنية وإدارة البيانات كأصل مؤسسي يدعم اتخاذ القرار.",
			Sections: []domain.Section{
				{
					Title: "إدارة البيانات",
					Criteria: []domain.Criterion{
						{Text: "وجود سياسة معتمدة لحوكمة البيانات."},
						{Text: "تصنيف البيانات وتحديد ملاكها."},
					},
				},
			},
			Questions: []domain.Question{
				{Text: "هل توجد سياسة معتمدة لإدارة وحوكمة البيانات؟"},
				{Text: "هل البنية التقنية قادرة على دعم متطلبات النمو؟"},
				{Text: "هل تُستخدم البيانات في دعم اتخاذ القرار؟"},
			},
		},
		{
			ID:          "Risk & Compliance",
			Title:       "المخاطر والالتزام — Risk & Compliance",
			Description: "نضج إدارة المخاطر التقنية والالتزام بالمتطلبات التنظيمية والتشريعية.",
			Sections: []domain.Section{
				{
					Title: "إدارة المخاطر",
					Criteria: []domain.Criterion{
						{Text: "وجود سجل مخاطر تقني محدّث."},
						{Text: "خطط معالجة موثقة للمخاطر عالية الأثر."},
					},
				},
			},
			Questions: []domain.Question{
				{Text: "هل يوجد سجل مخاطر تقني يُحدّث بشكل دوري؟"},
				{Text: "هل تُقيّم مخاطر الالتزام التنظيمي بشكل مستقل؟"},
				{Text: "هل توجد خطط استجابة معتمدة للحوادث التقنية؟"},
			},
		},
	}
}

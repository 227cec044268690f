package constant

import "clinical-eval-be/pkg/evaluation"

// ChecklistCatalog is the built-in longevity checklist, grouped by category.
// Category order here is the order results are reported in.
var ChecklistCatalog = []CatalogCategory{
	{
		Name: "metabolic",
		Items: []evaluation.ChecklistItem{
			{Name: "Fasting glucose", Category: "metabolic", Rationale: "baseline insulin sensitivity"},
			{Name: "HbA1c", Category: "metabolic", Rationale: "three-month glycemic average"},
			{Name: "Fasting insulin", Category: "metabolic"},
			{Name: "Lipid panel", Category: "metabolic", Rationale: "LDL, HDL, triglycerides"},
			{Name: "ApoB", Category: "metabolic"},
		},
	},
	{
		Name: "cardiovascular",
		Items: []evaluation.ChecklistItem{
			{Name: "Blood pressure log", Category: "cardiovascular", Rationale: "repeated readings, not a single visit"},
			{Name: "Resting heart rate", Category: "cardiovascular"},
			{Name: "Coronary calcium score", Category: "cardiovascular"},
			{Name: "Lipoprotein(a)", Category: "cardiovascular", Rationale: "once-in-a-lifetime genetic risk marker"},
		},
	},
	{
		Name: "hormonal",
		Items: []evaluation.ChecklistItem{
			{Name: "Thyroid panel", Category: "hormonal", Rationale: "TSH with free T3/T4"},
			{Name: "Cortisol", Category: "hormonal"},
			{Name: "Sex hormone panel", Category: "hormonal"},
		},
	},
	{
		Name: "nutritional",
		Items: []evaluation.ChecklistItem{
			{Name: "Vitamin D", Category: "nutritional"},
			{Name: "Vitamin B12", Category: "nutritional"},
			{Name: "Ferritin", Category: "nutritional", Rationale: "iron stores"},
			{Name: "Omega-3 index", Category: "nutritional"},
		},
	},
	{
		Name: "inflammation",
		Items: []evaluation.ChecklistItem{
			{Name: "hs-CRP", Category: "inflammation", Rationale: "systemic inflammation marker"},
			{Name: "Homocysteine", Category: "inflammation"},
		},
	},
	{
		Name: "screening",
		Items: []evaluation.ChecklistItem{
			{Name: "Colonoscopy", Category: "screening", Rationale: "per age-appropriate guidelines"},
			{Name: "Skin cancer screening", Category: "screening"},
			{Name: "Bone density scan", Category: "screening"},
			{Name: "Kidney function panel", Category: "screening", Rationale: "creatinine, eGFR, cystatin C"},
			{Name: "Liver function panel", Category: "screening"},
		},
	},
}

type CatalogCategory struct {
	Name  string
	Items []evaluation.ChecklistItem
}

// CatalogCategoryByName returns the category with the given name, or nil.
func CatalogCategoryByName(name string) *CatalogCategory {
	for i := range ChecklistCatalog {
		if ChecklistCatalog[i].Name == name {
			return &ChecklistCatalog[i]
		}
	}
	return nil
}

// Package drugindex holds the canonical reference vocabulary of known
// medication names. The index is built once at process start and is
// read-only thereafter; it is shared by every extraction strategy.
package drugindex

// Category groups drug names under a therapeutic class.
type Category struct {
	Name  string
	Drugs []string
}

// Index is the flattened, ordered drug vocabulary. Duplicates across
// categories are permitted and original casing is preserved.
type Index struct {
	categories []Category
	all        []string
}

// New builds an Index from an ordered category list.
func New(categories []Category) *Index {
	ix := &Index{categories: categories}
	for _, cat := range categories {
		ix.all = append(ix.all, cat.Drugs...)
	}
	return ix
}

// FromList builds an Index from a flat name list, e.g. one loaded from the
// drug_index table.
func FromList(names []string) *Index {
	return New([]Category{{Name: "all", Drugs: names}})
}

// All returns the flattened vocabulary in category order. Callers must not
// modify the returned slice.
func (ix *Index) All() []string {
	return ix.all
}

// Size returns the number of entries in the flattened vocabulary.
func (ix *Index) Size() int {
	return len(ix.all)
}

// Default returns the built-in vocabulary used when no external source is
// configured.
func Default() *Index {
	return New([]Category{
		{Name: "painkillers", Drugs: []string{"Paracetamol", "Ibuprofen", "Aspirin", "Tramadol", "Codeine", "Diclofenac", "Naproxen"}},
		{Name: "antibiotics", Drugs: []string{"Amoxicillin", "Azithromycin", "Ciprofloxacin", "Doxycycline", "Metronidazole"}},
		{Name: "antidiabetics", Drugs: []string{"Metformin", "Glimepiride", "Sitagliptin", "Insulin", "Empagliflozin"}},
		{Name: "statins", Drugs: []string{"Atorvastatin", "Simvastatin", "Rosuvastatin", "Pravastatin"}},
		{Name: "antihypertensives", Drugs: []string{"Amlodipine", "Lisinopril", "Losartan", "Hydrochlorothiazide", "Enalapril"}},
		{Name: "antihistamines", Drugs: []string{"Cetirizine", "Loratadine", "Fexofenadine", "Chlorpheniramine"}},
		{Name: "corticosteroids", Drugs: []string{"Prednisolone", "Dexamethasone", "Hydrocortisone", "Budesonide"}},
	})
}

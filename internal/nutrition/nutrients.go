package nutrition

// Canonical nutrient keys. Totals and GoalMap are keyed by these.
const (
	Calories        = "calories"
	TotalCarbs      = "total_carbs"
	Fiber           = "fiber"
	Sugar           = "sugar"
	AddedSugar      = "added_sugar"
	TotalFats       = "total_fats"
	Omega3          = "omega_3"
	Omega6          = "omega_6"
	SaturatedFats   = "saturated_fats"
	TransFats       = "trans_fats"
	Cholesterol     = "cholesterol"
	Protein         = "protein"
	Water           = "water"
	VitaminA        = "vitamin_a"
	VitaminB6       = "vitamin_b6"
	VitaminB12      = "vitamin_b12"
	VitaminC        = "vitamin_c"
	VitaminD        = "vitamin_d"
	VitaminE        = "vitamin_e"
	VitaminK        = "vitamin_k"
	Thiamin         = "thiamin"
	Riboflavin      = "riboflavin"
	Niacin          = "niacin"
	Folate          = "folate"
	PantothenicAcid = "pantothenic_acid"
	Biotin          = "biotin"
	Choline         = "choline"
	Calcium         = "calcium"
	Chromium        = "chromium"
	Copper          = "copper"
	Fluoride        = "fluoride"
	Iodine          = "iodine"
	Iron            = "iron"
	Magnesium       = "magnesium"
	Manganese       = "manganese"
	Molybdenum      = "molybdenum"
	Phosphorus      = "phosphorus"
	Selenium        = "selenium"
	Zinc            = "zinc"
	Potassium       = "potassium"
	Sodium          = "sodium"
	Chloride        = "chloride"
)

type Kind int

const (
	KindEnergy Kind = iota
	KindMacro
	KindVitamin
	KindMineral
	KindElectrolyte
)

// limit describes an upper bound. Calorie-scaled limits are
// pct*calorieGoal/kcalPerGram; fixed limits ignore the calorie goal.
type limit struct {
	pct         float64
	kcalPerGram float64
	fixed       float64
	scored      bool
}

func (l limit) amount(calorieGoal int) (float64, bool) {
	if l.fixed > 0 {
		return l.fixed, true
	}
	if calorieGoal <= 0 || l.kcalPerGram <= 0 {
		return 0, false
	}
	return l.pct * float64(calorieGoal) / l.kcalPerGram, true
}

// Nutrient is one entry of the catalog. Aliases are alternate keys a Food
// record may use; Columns are reference table headers, tried in order.
type Nutrient struct {
	Key     string
	Label   string
	Unit    string
	Kind    Kind
	Aliases []string
	Columns []string
	// Weight is the positive-side score weight; zero means the nutrient is
	// not encouraged.
	Weight float64
	limit  *limit
}

func (n Nutrient) Encouraged() bool { return n.Weight > 0 }

func (n Nutrient) Limiter() bool { return n.limit != nil }

func (n Nutrient) Limit(calorieGoal int) (float64, bool) {
	if n.limit == nil {
		return 0, false
	}
	return n.limit.amount(calorieGoal)
}

var catalog = []Nutrient{
	{Key: Calories, Label: "calories", Unit: "kcal", Kind: KindEnergy, Aliases: []string{"energy_kcal", "kcal"}, Weight: 3.0},
	{Key: TotalCarbs, Label: "carbohydrates", Unit: "g", Kind: KindMacro, Aliases: []string{"carbs", "carbohydrates", "carbs_g"}, Columns: []string{"Carbohydrate (g/d)", "Carbohydrate"}, Weight: 2.0},
	{Key: Protein, Label: "protein", Unit: "g", Kind: KindMacro, Aliases: []string{"proteins", "protein_g"}, Columns: []string{"Protein (g/d)", "Protein"}, Weight: 2.5},
	{Key: TotalFats, Label: "fat", Unit: "g", Kind: KindMacro, Aliases: []string{"fat", "fats", "total_fat", "fat_g"}, Columns: []string{"Fat (g/d)", "Total Fat (g/d)", "Fat"}, Weight: 2.0},
	{Key: Fiber, Label: "fiber", Unit: "g", Kind: KindMacro, Aliases: []string{"dietary_fiber", "fibre", "fiber_g"}, Columns: []string{"Total Fiber (g/d)", "Fiber (g/d)", "Total Fiber", "Fiber"}, Weight: 2.0},
	{Key: Omega3, Label: "omega-3", Unit: "g", Kind: KindMacro, Aliases: []string{"omega3", "omega_3_fat", "alpha_linolenic_acid"}, Columns: []string{"α-Linolenic Acid (g/d)", "a-Linolenic Acid (g/d)", "alpha-Linolenic Acid (g/d)", "Omega-3 (g/d)", "Omega-3"}, Weight: 1.5},
	{Key: Omega6, Label: "omega-6", Unit: "g", Kind: KindMacro, Aliases: []string{"omega6", "omega_6_fat", "linoleic_acid"}, Columns: []string{"Linoleic Acid (g/d)", "Omega-6 (g/d)", "Omega-6"}, Weight: 1.0},
	{Key: Water, Label: "water", Unit: "L", Kind: KindMacro, Aliases: []string{"total_water"}, Columns: []string{"Total Water (L/d)", "Water (L/d)", "Total Water", "Water"}},
	{Key: Sugar, Label: "sugar", Unit: "g", Kind: KindMacro, Aliases: []string{"sugars", "total_sugar", "sugar_g"}},
	{Key: AddedSugar, Label: "added sugar", Unit: "g", Kind: KindMacro, Aliases: []string{"added_sugars"},
		limit: &limit{pct: 0.10, kcalPerGram: 4, scored: true}},
	{Key: SaturatedFats, Label: "saturated fat", Unit: "g", Kind: KindMacro, Aliases: []string{"saturated_fat", "sat_fat"},
		limit: &limit{pct: 0.10, kcalPerGram: 9, scored: true}},
	{Key: TransFats, Label: "trans fat", Unit: "g", Kind: KindMacro, Aliases: []string{"trans_fat"},
		limit: &limit{pct: 0.01, kcalPerGram: 9, scored: true}},
	{Key: Cholesterol, Label: "cholesterol", Unit: "mg", Kind: KindMacro, Aliases: []string{"cholesterol_mg"},
		limit: &limit{fixed: 300, scored: true}},

	{Key: VitaminA, Label: "vitamin A", Unit: "µg", Kind: KindVitamin, Aliases: []string{"retinol"}, Columns: []string{"Vitamin A (µg/d)", "Vitamin A (ug/d)", "Vitamin A (mcg/d)", "Vitamin A"}, Weight: 1.0},
	{Key: VitaminC, Label: "vitamin C", Unit: "mg", Kind: KindVitamin, Aliases: []string{"ascorbic_acid"}, Columns: []string{"Vitamin C (mg/d)", "Vitamin C"}, Weight: 1.0},
	{Key: VitaminD, Label: "vitamin D", Unit: "µg", Kind: KindVitamin, Columns: []string{"Vitamin D (µg/d)", "Vitamin D (ug/d)", "Vitamin D (mcg/d)", "Vitamin D"}, Weight: 1.0},
	{Key: VitaminE, Label: "vitamin E", Unit: "mg", Kind: KindVitamin, Aliases: []string{"tocopherol"}, Columns: []string{"Vitamin E (mg/d)", "Vitamin E"}, Weight: 1.0},
	{Key: VitaminK, Label: "vitamin K", Unit: "µg", Kind: KindVitamin, Columns: []string{"Vitamin K (µg/d)", "Vitamin K (ug/d)", "Vitamin K (mcg/d)", "Vitamin K"}, Weight: 1.0},
	{Key: Thiamin, Label: "thiamin", Unit: "mg", Kind: KindVitamin, Aliases: []string{"thiamine", "vitamin_b1"}, Columns: []string{"Thiamin (mg/d)", "Thiamine (mg/d)", "Thiamin"}, Weight: 1.0},
	{Key: Riboflavin, Label: "riboflavin", Unit: "mg", Kind: KindVitamin, Aliases: []string{"vitamin_b2"}, Columns: []string{"Riboflavin (mg/d)", "Riboflavin"}, Weight: 1.0},
	{Key: Niacin, Label: "niacin", Unit: "mg", Kind: KindVitamin, Aliases: []string{"vitamin_b3", "vitamin_pp"}, Columns: []string{"Niacin (mg/d)", "Niacin"}, Weight: 1.0},
	{Key: VitaminB6, Label: "vitamin B6", Unit: "mg", Kind: KindVitamin, Aliases: []string{"pyridoxine"}, Columns: []string{"Vitamin B6 (mg/d)", "Vitamin B6"}, Weight: 1.0},
	{Key: Folate, Label: "folate", Unit: "µg", Kind: KindVitamin, Aliases: []string{"vitamin_b9", "folic_acid"}, Columns: []string{"Folate (µg/d)", "Folate (ug/d)", "Folate (mcg/d)", "Folate"}, Weight: 1.0},
	{Key: VitaminB12, Label: "vitamin B12", Unit: "µg", Kind: KindVitamin, Aliases: []string{"cobalamin"}, Columns: []string{"Vitamin B12 (µg/d)", "Vitamin B12 (ug/d)", "Vitamin B12 (mcg/d)", "Vitamin B12"}, Weight: 1.0},
	{Key: PantothenicAcid, Label: "pantothenic acid", Unit: "mg", Kind: KindVitamin, Aliases: []string{"vitamin_b5"}, Columns: []string{"Pantothenic Acid (mg/d)", "Pantothenic Acid"}, Weight: 1.0},
	{Key: Biotin, Label: "biotin", Unit: "µg", Kind: KindVitamin, Aliases: []string{"vitamin_b7"}, Columns: []string{"Biotin (µg/d)", "Biotin (ug/d)", "Biotin (mcg/d)", "Biotin"}, Weight: 1.0},
	{Key: Choline, Label: "choline", Unit: "mg", Kind: KindVitamin, Columns: []string{"Choline (mg/d)", "Choline"}, Weight: 1.0},

	{Key: Calcium, Label: "calcium", Unit: "mg", Kind: KindMineral, Columns: []string{"Calcium (mg/d)", "Calcium"}, Weight: 1.0},
	{Key: Chromium, Label: "chromium", Unit: "µg", Kind: KindMineral, Columns: []string{"Chromium (µg/d)", "Chromium (ug/d)", "Chromium (mcg/d)", "Chromium"}, Weight: 1.0},
	{Key: Copper, Label: "copper", Unit: "µg", Kind: KindMineral, Columns: []string{"Copper (µg/d)", "Copper (ug/d)", "Copper (mcg/d)", "Copper"}, Weight: 1.0},
	{Key: Fluoride, Label: "fluoride", Unit: "mg", Kind: KindMineral, Columns: []string{"Fluoride (mg/d)", "Fluoride"}, Weight: 1.0},
	{Key: Iodine, Label: "iodine", Unit: "µg", Kind: KindMineral, Columns: []string{"Iodine (µg/d)", "Iodine (ug/d)", "Iodine (mcg/d)", "Iodine"}, Weight: 1.0},
	{Key: Iron, Label: "iron", Unit: "mg", Kind: KindMineral, Columns: []string{"Iron (mg/d)", "Iron"}, Weight: 1.0},
	{Key: Magnesium, Label: "magnesium", Unit: "mg", Kind: KindMineral, Columns: []string{"Magnesium (mg/d)", "Magnesium"}, Weight: 1.0},
	{Key: Manganese, Label: "manganese", Unit: "mg", Kind: KindMineral, Columns: []string{"Manganese (mg/d)", "Manganese"}, Weight: 1.0},
	{Key: Molybdenum, Label: "molybdenum", Unit: "µg", Kind: KindMineral, Columns: []string{"Molybdenum (µg/d)", "Molybdenum (ug/d)", "Molybdenum (mcg/d)", "Molybdenum"}, Weight: 1.0},
	{Key: Phosphorus, Label: "phosphorus", Unit: "mg", Kind: KindMineral, Columns: []string{"Phosphorus (mg/d)", "Phosphorus"}, Weight: 1.0},
	{Key: Selenium, Label: "selenium", Unit: "µg", Kind: KindMineral, Columns: []string{"Selenium (µg/d)", "Selenium (ug/d)", "Selenium (mcg/d)", "Selenium"}, Weight: 1.0},
	{Key: Zinc, Label: "zinc", Unit: "mg", Kind: KindMineral, Columns: []string{"Zinc (mg/d)", "Zinc"}, Weight: 1.0},

	{Key: Potassium, Label: "potassium", Unit: "mg", Kind: KindElectrolyte, Columns: []string{"Potassium (mg/d)", "Potassium (g/d)", "Potassium"}, Weight: 1.0},
	{Key: Sodium, Label: "sodium", Unit: "mg", Kind: KindElectrolyte, Columns: []string{"Sodium (mg/d)", "Sodium (g/d)", "Sodium"},
		limit: &limit{fixed: 2300}},
	{Key: Chloride, Label: "chloride", Unit: "mg", Kind: KindElectrolyte, Columns: []string{"Chloride (mg/d)", "Chloride (g/d)", "Chloride"},
		limit: &limit{fixed: 2300}},
}

var catalogIndex = func() map[string]int {
	idx := make(map[string]int, len(catalog))
	for i, n := range catalog {
		idx[n.Key] = i
	}
	return idx
}()

// Catalog returns every tracked nutrient in display order.
func Catalog() []Nutrient {
	out := make([]Nutrient, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry for a canonical key.
func Lookup(key string) (Nutrient, bool) {
	i, ok := catalogIndex[key]
	if !ok {
		return Nutrient{}, false
	}
	return catalog[i], true
}

// Label returns the display label of key, or key itself when unknown.
func Label(key string) string {
	if n, ok := Lookup(key); ok {
		return n.Label
	}
	return key
}

// Candidates returns the canonical key followed by its aliases.
func (n Nutrient) Candidates() []string {
	out := make([]string, 0, len(n.Aliases)+1)
	out = append(out, n.Key)
	return append(out, n.Aliases...)
}

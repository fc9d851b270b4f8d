package domain

import "fmt"

// Color is an RGBA quadruple as consumed by the map renderer
type Color [4]uint8

// Category is one commodity grouping inside supply/demand data
type Category struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color Color  `json:"color"`
}

// CategorySchema is the ordered, immutable set of categories of a dataset variant
type CategorySchema struct {
	name       string
	categories []Category
	index      map[string]int
}

// NewCategorySchema builds a schema; keys must be unique and non-empty
func NewCategorySchema(name string, categories ...Category) (CategorySchema, error) {
	if len(categories) == 0 {
		return CategorySchema{}, fmt.Errorf("schema %q: no categories", name)
	}
	s := CategorySchema{
		name:       name,
		categories: make([]Category, len(categories)),
		index:      make(map[string]int, len(categories)),
	}
	for i, c := range categories {
		if c.Key == "" || c.Key == CategoryAll {
			return CategorySchema{}, fmt.Errorf("schema %q: invalid category key %q", name, c.Key)
		}
		if _, dup := s.index[c.Key]; dup {
			return CategorySchema{}, fmt.Errorf("schema %q: duplicate category %q", name, c.Key)
		}
		s.categories[i] = c
		s.index[c.Key] = i
	}
	return s, nil
}

func mustSchema(name string, categories ...Category) CategorySchema {
	s, err := NewCategorySchema(name, categories...)
	if err != nil {
		panic(err)
	}
	return s
}

const columnOpacity = 180

// SchemaSixGroup is the full commodity breakdown used by the WA dataset
func SchemaSixGroup() CategorySchema {
	return mustSchema("six",
		Category{Key: "meat", Label: "Meat", Color: Color{255, 71, 51, columnOpacity}},
		Category{Key: "carbs", Label: "Grains", Color: Color{189, 140, 132, columnOpacity}},
		Category{Key: "produce", Label: "Produce", Color: Color{125, 201, 3, columnOpacity}},
		Category{Key: "sugarNFat", Label: "Sugar & Fat", Color: Color{158, 81, 236, columnOpacity}},
		Category{Key: "dairyNEggs", Label: "Dairy & Eggs", Color: Color{255, 187, 0, columnOpacity}},
		Category{Key: "other", Label: "Other", Color: Color{200, 200, 200, columnOpacity}},
	)
}

// SchemaFourGroup is the reduced breakdown used by the comparison dataset
func SchemaFourGroup() CategorySchema {
	return mustSchema("four",
		Category{Key: "meat", Label: "Meat", Color: Color{255, 71, 51, columnOpacity}},
		Category{Key: "carbs", Label: "Grains", Color: Color{189, 140, 132, columnOpacity}},
		Category{Key: "vegetables", Label: "Vegetables", Color: Color{125, 201, 3, columnOpacity}},
		Category{Key: "fruits", Label: "Fruits", Color: Color{255, 140, 0, columnOpacity}},
	)
}

// SchemaByName resolves a configured schema variant
func SchemaByName(name string) (CategorySchema, error) {
	switch name {
	case "", "six":
		return SchemaSixGroup(), nil
	case "four":
		return SchemaFourGroup(), nil
	default:
		return CategorySchema{}, fmt.Errorf("unknown schema variant %q", name)
	}
}

// Name returns the variant name
func (s CategorySchema) Name() string { return s.name }

// Len returns the number of categories
func (s CategorySchema) Len() int { return len(s.categories) }

// Categories returns a copy of the categories in schema order
func (s CategorySchema) Categories() []Category {
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Keys returns the category keys in schema order
func (s CategorySchema) Keys() []string {
	keys := make([]string, len(s.categories))
	for i, c := range s.categories {
		keys[i] = c.Key
	}
	return keys
}

// Has reports whether key names a category of this schema
func (s CategorySchema) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Category looks up a category by key
func (s CategorySchema) Category(key string) (Category, error) {
	i, ok := s.index[key]
	if !ok {
		return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
	}
	return s.categories[i], nil
}

// Matches reports whether m is keyed by exactly the schema's categories
func (s CategorySchema) Matches(m map[string]float64) bool {
	if len(m) != len(s.categories) {
		return false
	}
	for _, c := range s.categories {
		if _, ok := m[c.Key]; !ok {
			return false
		}
	}
	return true
}

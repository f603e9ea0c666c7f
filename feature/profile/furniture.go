package profile

import "csv-importer/core/server"

// FurnitureProfileName names the built-in furniture catalogue profile.
const FurnitureProfileName = "furniture"

// Logical furniture fields, in the order of the furniture CSV layout.
const (
	FurniSpriteID = iota
	FurniItemName
	FurniPublicName
	FurniWidth
	FurniLength
	FurniStackHeight
	FurniCanStack
	FurniCanSit
	FurniCanWalk
	FurniCanLay
	FurniType
	FurniInteraction
)

// furnitureSchema is the emulator specific table layout.
type furnitureSchema struct {
	table   string
	columns map[int]string
}

func arcturusSchema() furnitureSchema {
	return furnitureSchema{
		table: "items_base",
		columns: map[int]string{
			FurniSpriteID:    "sprite_id",
			FurniItemName:    "item_name",
			FurniPublicName:  "public_name",
			FurniWidth:       "width",
			FurniLength:      "length",
			FurniStackHeight: "stack_height",
			FurniCanStack:    "allow_stack",
			FurniCanSit:      "allow_sit",
			FurniCanWalk:     "allow_walk",
			FurniCanLay:      "allow_lay",
			FurniType:        "type",
			FurniInteraction: "interaction_type",
		},
	}
}

func cometSchema() furnitureSchema {
	return furnitureSchema{
		table: "furniture",
		columns: map[int]string{
			FurniSpriteID:    "sprite_id",
			FurniItemName:    "item_name",
			FurniPublicName:  "public_name",
			FurniWidth:       "width",
			FurniLength:      "length",
			FurniStackHeight: "stack_height",
			FurniCanStack:    "can_stack",
			FurniCanSit:      "can_sit",
			FurniCanWalk:     "is_walkable",
			FurniCanLay:      "can_lay",
			FurniType:        "type",
			FurniInteraction: "interaction_type",
		},
	}
}

// Plus has no lay flag.
func plusSchema() furnitureSchema {
	s := cometSchema()
	delete(s.columns, FurniCanLay)
	return s
}

func schemaFor(emulator string) furnitureSchema {
	switch emulator {
	case server.EmulatorComet:
		return cometSchema()
	case server.EmulatorPlus, "plus":
		return plusSchema()
	default:
		return arcturusSchema()
	}
}

// Furniture returns the furniture catalogue profile for emulator. Rows are
// keyed by item_name (the classname) and updates address rows by id.
func Furniture(emulator string) Profile {
	schema := schemaFor(emulator)

	layout := []struct {
		logical   int
		transform string
		typ       string
		required  bool
		unique    bool
	}{
		{FurniSpriteID, TransformInt, "int", true, false},
		{FurniItemName, TransformTrim, "varchar", true, true},
		{FurniPublicName, TransformTrim, "varchar", false, false},
		{FurniWidth, TransformInt, "int", false, false},
		{FurniLength, TransformInt, "int", false, false},
		{FurniStackHeight, TransformDecimal, "", false, false},
		{FurniCanStack, TransformBool, "", false, false},
		{FurniCanSit, TransformBool, "", false, false},
		{FurniCanWalk, TransformBool, "", false, false},
		{FurniCanLay, TransformBool, "", false, false},
		{FurniType, TransformLower, "", false, false},
		{FurniInteraction, TransformTrim, "", false, false},
	}

	p := Profile{
		Name:        FurnitureProfileName,
		Description: "Furniture catalogue rows of " + schema.table,
		Table:       schema.table,
		Key:         []string{schema.columns[FurniItemName]},
		Match:       []string{"id"},
		SkipIfEmpty: []int{FurniItemName},
	}
	for _, s := range layout {
		col, ok := schema.columns[s.logical]
		if !ok {
			continue
		}
		p.Fields = append(p.Fields, Field{
			Column:    s.logical,
			Attribute: col,
			Transform: s.transform,
			Required:  s.required,
			Unique:    s.unique,
			Type:      s.typ,
		})
	}
	return p
}

package core

import (
	"fmt"
	"sort"
)

type StructureType int

const (
	StructureTypeNone StructureType = iota
	StructureTypeSchema
	StructureTypeTable
	StructureTypeView
	StructureTypeMaterializedView
)

func (s StructureType) String() string {
	switch s {
	case StructureTypeNone:
		return ""
	case StructureTypeSchema:
		return "schema"
	case StructureTypeTable:
		return "table"
	case StructureTypeView:
		return "view"
	case StructureTypeMaterializedView:
		return "materialized_view"
	default:
		return ""
	}
}

// Structure represents the structure of a single database
type Structure struct {
	// Name to be displayed
	Name   string
	Schema string
	// Type of layout
	Type StructureType
	// Children layout nodes
	Children []*Structure
}

// GetGenericStructure converts a (schema, name, type) result stream into a
// structure tree grouped by schema. Most information_schema based drivers
// can use it directly.
func GetGenericStructure(rows ResultStream, getType func(string) StructureType) ([]*Structure, error) {
	children := make(map[string][]*Structure)

	for rows.HasNext() {
		row, err := rows.Next()
		if err != nil {
			return nil, err
		}

		if len(row) < 3 {
			return nil, fmt.Errorf("structure query returned %d columns, expected at least 3", len(row))
		}

		schema, ok1 := row[0].(string)
		name, ok2 := row[1].(string)
		typ, ok3 := row[2].(string)
		if !ok1 || !ok2 || !ok3 {
			return nil, fmt.Errorf("structure query returned non-string values: %v", row)
		}

		children[schema] = append(children[schema], &Structure{
			Name:   name,
			Schema: schema,
			Type:   getType(typ),
		})
	}

	var structure []*Structure
	for schema, tables := range children {
		structure = append(structure, &Structure{
			Name:     schema,
			Schema:   schema,
			Type:     StructureTypeSchema,
			Children: tables,
		})
	}

	// map ordering is random
	sort.Slice(structure, func(i, j int) bool { return structure[i].Name < structure[j].Name })

	return structure, nil
}

package schema

// JSONSchema renders the descriptor as a $jsonSchema validator document.
func (d Descriptor) JSONSchema() map[string]any {
	return map[string]any{
		"$jsonSchema": map[string]any{
			"bsonType":   "object",
			"required":   append([]string(nil), d.Required...),
			"properties": propertiesSchema(d.Properties),
		},
	}
}

func propertiesSchema(props map[string]Property) map[string]any {
	out := make(map[string]any, len(props))
	for name, p := range props {
		out[name] = propertySchema(p)
	}
	return out
}

func propertySchema(p Property) map[string]any {
	m := map[string]any{}
	if len(p.Types) == 1 {
		m["bsonType"] = string(p.Types[0])
	} else {
		types := make([]string, 0, len(p.Types))
		for _, t := range p.Types {
			types = append(types, string(t))
		}
		m["bsonType"] = types
	}
	if p.Items != "" {
		m["items"] = map[string]any{"bsonType": string(p.Items)}
	}
	if len(p.Enum) > 0 {
		m["enum"] = append([]string(nil), p.Enum...)
	}
	if p.Minimum != nil {
		m["minimum"] = *p.Minimum
	}
	if p.Maximum != nil {
		m["maximum"] = *p.Maximum
	}
	if p.Pattern != "" {
		m["pattern"] = p.Pattern
	}
	if len(p.Properties) > 0 {
		m["properties"] = propertiesSchema(p.Properties)
	}
	return m
}

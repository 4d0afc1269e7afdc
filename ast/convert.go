// Copyright © 2025 The MON authors

package ast

// Interface converts v to plain Go values: nil, bool, float64, string,
// []interface{} and map[string]interface{}.  Only pair members contribute
// to objects.  References and enum values are not resolved and convert to
// their source form, e.g. "*name" or "$Enum.Variant".
func (v *Value) Interface() interface{} {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case Boolean:
		return v.Bool
	case Number:
		return v.Number
	case String:
		return v.Str
	case Array:
		items := make([]interface{}, 0, len(v.Items))
		for _, item := range v.Items {
			items = append(items, item.Interface())
		}
		return items
	case Object:
		m := make(map[string]interface{}, len(v.Members))
		for _, member := range v.Members {
			if member.Kind == PairMember {
				m[member.Key] = member.Value.Interface()
			}
		}
		return m
	case Alias, ArraySpread, EnumValue:
		return v.Preview()
	}
	return nil
}

// Package ordered decodes JSON objects while keeping the order in which
// their keys appear in the source document.
//
// Manifest formats such as composer.json are plain JSON objects, but the
// order of entries in maps like "require" is meaningful to readers of a
// scan report. [Unmarshal] and [DecodeFile] return a [Map] whose [Map.Keys]
// follow document order. Nested objects are decoded as *Map, arrays as
// []any, numbers as [encoding/json.Number], and the remaining scalars as
// string, bool, or nil.
//
// # Usage
//
//	m, err := ordered.DecodeFile("composer.json")
//	if err != nil {
//	    return err
//	}
//	for _, k := range m.Keys() {
//	    v, _ := m.Get(k)
//	    fmt.Println(k, v)
//	}
//
// Input must be valid UTF-8 and must contain exactly one top-level JSON
// object. Anything else is reported as an error.
package ordered

// Package mapping provides key-value containers whose values are unique.
//
// Two containers are provided:
//
//   - UniqueMap: an ordinary mapping where each value is held by at most one key.
//     Assigning a value that another key already holds moves it: the old key is
//     removed ("last writer owns it"). This is not an error.
//   - BiMap: a forward and an inverse UniqueMap kept consistent under every
//     mutation, so lookups work by key and by value.
//
// # Usage
//
//	aliases := mapping.NewUniqueMap[string, string]()
//	aliases.Set("motor/ctrl/1", "mot01")
//	aliases.Set("motor/ctrl/2", "mot01") // motor/ctrl/1 is evicted
//
//	ids := mapping.NewBiMap[int, string]()
//	ids.Set(3, "motor/ctrl/1")
//	name, _ := ids.Get(3)
//	id, _ := ids.GetKey("motor/ctrl/1")
//
// Neither type is safe for concurrent mutation. The export builds every
// mapping once, then only reads it.
package mapping

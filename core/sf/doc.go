// Package sf provides a generic single-flight mechanism for deduplicating
// concurrent function calls with the same key.
//
// It is used by the cache to make concurrent misses for the same key run
// the loader once:
//
//	g := sf.New[*User]()
//	user, _, err := g.Do("user:123", func() (*User, error) {
//	    return db.GetUser(ctx, "123")
//	})
package sf

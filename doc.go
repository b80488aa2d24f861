// Package inject is a hierarchical, scope-aware dependency injection runtime.
//
// Values are identified by keys, produced by bindings registered on
// containers and cached in scopes owned by containers. Containers form a
// tree: a lookup walks from the requesting container toward the root, and a
// scoped value is cached on the nearest container owning its scope, so
// children created per request or per tenant get their own cache tier while
// sharing everything bound above them.
//
//	var (
//		Request = inject.NewScope("Request")
//		DB      = inject.NewKey[*sql.DB](inject.Named("DB"), inject.InScope(inject.Singleton))
//		Repo    = inject.NewKey[*Repo](inject.Named("Repo"), inject.InScope(Request))
//	)
//
//	root := inject.NewRoot().
//		Provide(DB, nil, openDB).
//		Provide(Repo, DB, inject.Call(NewRepo))
//
//	req := root.CreateChild(Request)
//	repo, err := inject.Get(req, Repo)
//
// Requests accept whole dependency trees: slices and string-keyed maps of
// keys, nested arbitrarily, and the wrappers Lazy, Provider, Optional, Build
// and Async. The result mirrors the shape of the request.
package inject

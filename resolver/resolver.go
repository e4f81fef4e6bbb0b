// Package resolver supplies the external-symbol lookup the translator
// needs to resolve "extern name lib library" directives: a library
// resolver that maps a library name to an opaque handle, and a symbol
// resolver that maps a handle plus symbol name to an absolute numeric
// address.
package resolver

import (
	"fmt"
	"sync"

	"github.com/lookbusy-sasm/sasm32/parser"
)

// LibraryResolver opens (or looks up a cached handle for) a named
// library.
type LibraryResolver interface {
	Open(library string) (parser.LibraryHandle, error)
}

// SymbolResolver returns the absolute address of a symbol inside an
// already-opened library handle.
type SymbolResolver interface {
	Lookup(handle parser.LibraryHandle, symbol string) (int32, error)
}

// Book is a static name -> address mapping for one library, typically
// loaded from a TOML library book (see LoadBooks).
type Book map[string]int32

// StaticResolver implements parser.ExternResolver over an in-process
// table of library books. It is, deliberately, not goroutine-safe: the
// translator's concurrency model treats library-handle caching as an
// optimization the caller must itself synchronize if it invokes
// translation from more than one goroutine.
type StaticResolver struct {
	books map[string]Book
	cache map[string]parser.LibraryHandle
}

// NewStaticResolver builds a resolver over the given library->book
// mapping.
func NewStaticResolver(books map[string]Book) *StaticResolver {
	return &StaticResolver{books: books, cache: make(map[string]parser.LibraryHandle)}
}

// Open satisfies LibraryResolver, caching the returned handle per
// library name.
func (r *StaticResolver) Open(library string) (parser.LibraryHandle, error) {
	if handle, ok := r.cache[library]; ok {
		return handle, nil
	}
	if _, ok := r.books[library]; !ok {
		return nil, &ErrUnknownLibrary{Library: library}
	}
	r.cache[library] = library
	return library, nil
}

// Resolve satisfies parser.ExternResolver.
func (r *StaticResolver) Resolve(library, symbol string) (int32, bool) {
	book, ok := r.books[library]
	if !ok {
		return 0, false
	}
	addr, ok := book[symbol]
	return addr, ok
}

// lockedResolver wraps a StaticResolver with a mutex, for callers that
// need to invoke translation concurrently and want thread safety
// without wrapping every call site in their own mutex.
type lockedResolver struct {
	mu    sync.Mutex
	inner *StaticResolver
}

// Locked wraps resolver so it can be shared safely across goroutines.
func Locked(inner *StaticResolver) parser.ExternResolver {
	return &lockedResolver{inner: inner}
}

func (l *lockedResolver) Resolve(library, symbol string) (int32, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.Resolve(library, symbol)
}

// ErrUnknownLibrary reports a library name absent from the resolver's
// book set.
type ErrUnknownLibrary struct {
	Library string
}

func (e *ErrUnknownLibrary) Error() string {
	return fmt.Sprintf("unknown library %q", e.Library)
}

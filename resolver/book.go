package resolver

import (
	"github.com/BurntSushi/toml"
)

// LoadBooks decodes a TOML library book from path into the
// library -> Book mapping StaticResolver expects. The book's on-disk
// shape is one table per library, each mapping symbol name to an
// absolute address:
//
//	[kernel32]
//	ExitProcess = 0x7C81CAFA
//	GetStdHandle = 0x7C810800
func LoadBooks(path string) (map[string]Book, error) {
	var raw map[string]map[string]int64
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, err
	}

	books := make(map[string]Book, len(raw))
	for library, symbols := range raw {
		book := make(Book, len(symbols))
		for symbol, addr := range symbols {
			book[symbol] = int32(addr)
		}
		books[library] = book
	}
	return books, nil
}

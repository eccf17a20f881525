package vocab

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"loom/internal/token"
)

//go:embed core_wordlist.txt
var coreWordlist []byte

// Build constructs a snapshot from a newline-separated wordlist. Blank lines
// and '#' comments are skipped; duplicate surfaces keep their first address.
// Addresses are assigned sequentially in list order.
func Build(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read wordlist: %w", err)
	}
	return build(data)
}

// FromFile builds a snapshot from a wordlist on disk.
func FromFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wordlist %s: %w", path, err)
	}
	return build(data)
}

// Core builds the snapshot of the embedded core wordlist.
func Core() *Snapshot {
	s, err := build(coreWordlist)
	if err != nil {
		// The embedded list is validated by tests; a bad build is a
		// packaging defect.
		panic(err)
	}
	return s
}

func build(data []byte) (*Snapshot, error) {
	sum := sha256.Sum256(data)
	s := &Snapshot{
		version:   hex.EncodeToString(sum[:]),
		bySurface: make(map[string]token.Address),
		byAddress: make(map[token.Address]string),
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 256), 1024)
	next := uint32(0)
	line := 0
	for scanner.Scan() {
		line++
		surface := strings.TrimSpace(scanner.Text())
		if surface == "" || strings.HasPrefix(surface, "#") {
			continue
		}
		if strings.ContainsAny(surface, " \t") {
			return nil, fmt.Errorf("wordlist line %d: surface %q contains whitespace", line, surface)
		}
		if _, dup := s.bySurface[surface]; dup {
			continue
		}
		addr, err := token.New(token.NamespaceWord, next)
		if err != nil {
			return nil, fmt.Errorf("wordlist line %d: %w", line, err)
		}
		next++
		s.bySurface[surface] = addr
		s.byAddress[addr] = surface
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan wordlist: %w", err)
	}
	return s, nil
}

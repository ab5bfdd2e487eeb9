package container

// Package is a decoded, read-only container. Binary reads return views
// into the buffer the package was decoded from; the buffer must not be
// modified while the package is in use. Safe for concurrent readers.
type Package struct {
	buf     []byte
	entries []Entry
	index   map[string]int
	files   []string
	size    int
	text    *textDecoder
}

// Files returns the entry names in encode order, binaries first.
// A name stored more than once is listed once.
func (p *Package) Files() []string {
	return append([]string(nil), p.files...)
}

// Len returns the number of distinct names.
func (p *Package) Len() int {
	return len(p.files)
}

// Has reports whether name is present.
func (p *Package) Has(name string) bool {
	_, ok := p.index[name]
	return ok
}

// Entry returns the layout of name. For repeated names the last stored
// entry wins.
func (p *Package) Entry(name string) (Entry, bool) {
	i, ok := p.index[name]
	if !ok {
		return Entry{}, false
	}
	return p.entries[i], true
}

// Entries returns every stored entry in encode order, including repeats.
func (p *Package) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

// Size returns the container length, excluding any trailing bytes of the
// buffer it was decoded from.
func (p *Package) Size() int {
	return p.size
}

// Read returns the content of name: a []byte view for binary entries, a
// string for text entries, or nil when name is absent.
func (p *Package) Read(name string) (any, error) {
	e, ok := p.Entry(name)
	if !ok {
		return nil, nil
	}
	if e.Kind == KindBinary {
		return p.view(e), nil
	}
	s, err := p.text.decode(name, p.view(e), e.Kind)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ReadBytes returns the stored payload of name without decoding it.
func (p *Package) ReadBytes(name string) ([]byte, bool) {
	e, ok := p.Entry(name)
	if !ok {
		return nil, false
	}
	return p.view(e), true
}

// ReadText returns the decoded text of name. Binary entries are returned
// as their raw bytes.
func (p *Package) ReadText(name string) (string, bool, error) {
	e, ok := p.Entry(name)
	if !ok {
		return "", false, nil
	}
	if e.Kind == KindBinary {
		return string(p.view(e)), true, nil
	}
	s, err := p.text.decode(name, p.view(e), e.Kind)
	if err != nil {
		return "", true, err
	}
	return s, true, nil
}

func (p *Package) view(e Entry) []byte {
	return p.buf[e.Offset:e.End():e.End()]
}

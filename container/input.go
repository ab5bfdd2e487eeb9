package container

// BinaryFile is an entry stored as raw bytes.
type BinaryFile struct {
	Name string
	Data []byte
}

// TextFile is an entry stored as text; the encoder picks the narrowest
// representation that holds every character.
type TextFile struct {
	Name string
	Text string
}

// Input lists the files of one container in encode order. Binary files
// are laid out before text files. Names may repeat and may be empty; they
// must not contain a newline.
type Input struct {
	Binary []BinaryFile
	Text   []TextFile
}

// AddBinary appends a binary file.
func (in *Input) AddBinary(name string, data []byte) *Input {
	in.Binary = append(in.Binary, BinaryFile{Name: name, Data: data})
	return in
}

// AddText appends a text file.
func (in *Input) AddText(name, text string) *Input {
	in.Text = append(in.Text, TextFile{Name: name, Text: text})
	return in
}

// Len returns the number of files.
func (in *Input) Len() int {
	return len(in.Binary) + len(in.Text)
}

// Names returns all file names in encode order.
func (in *Input) Names() []string {
	names := make([]string, 0, in.Len())
	for _, f := range in.Binary {
		names = append(names, f.Name)
	}
	for _, f := range in.Text {
		names = append(names, f.Name)
	}
	return names
}

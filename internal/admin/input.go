package admin

// InputKind tags what an administrator supplied for the current step.
type InputKind int

const (
	// InputNone is the skip button.
	InputNone InputKind = iota
	InputText
	InputImage
	// InputOther is any upload that is neither text nor a photo.
	InputOther
)

func (k InputKind) String() string {
	switch k {
	case InputText:
		return "text"
	case InputImage:
		return "image"
	case InputOther:
		return "other"
	}
	return "none"
}

// Input is a value offered to a wizard or editor step. Value holds the text or
// the uploaded file id.
type Input struct {
	Kind  InputKind
	Value string
}

// Text wraps a typed message.
func Text(s string) Input { return Input{Kind: InputText, Value: s} }

// Image wraps an uploaded photo file id.
func Image(fileID string) Input { return Input{Kind: InputImage, Value: fileID} }

// Skip is the explicit skip action.
func Skip() Input { return Input{Kind: InputNone} }

// Other wraps an upload the flows cannot use, such as a document.
func Other() Input { return Input{Kind: InputOther} }

package scanline

import "fmt"

// ErrorKind is the stable enumeration of failure causes. It implements error
// so it can be used as an errors.Is target:
//
//	if errors.Is(err, scanline.ErrIdxLayer) { ... }
type ErrorKind uint8

const (
	ErrNone            ErrorKind = iota // no error
	ErrOutOfMemory                      // resource arena exhausted
	ErrIdxLayer                         // layer index out of range
	ErrIdxSprite                        // sprite index out of range
	ErrIdxAnimation                     // animation index out of range
	ErrIdxPicture                       // picture, tile or color index out of range
	ErrRefTileset                       // invalid tileset handle
	ErrRefTilemap                       // invalid tilemap handle
	ErrRefSpriteset                     // invalid spriteset handle
	ErrRefPalette                       // invalid palette handle
	ErrRefSequence                      // invalid sequence handle
	ErrRefSequencePack                  // invalid sequence pack handle
	ErrRefBitmap                        // invalid bitmap handle
	ErrNullPointer                      // required argument missing
	ErrFileNotFound                     // resource or file not found
	ErrWrongFormat                      // malformed resource data
	ErrWrongSize                        // invalid dimensions
	ErrUnsupported                      // operation not valid in the current state
	ErrResourceInUse                    // resource still referenced
)

var errorKindNames = [...]string{
	"no error",
	"out of memory",
	"layer index out of range",
	"sprite index out of range",
	"animation index out of range",
	"picture index out of range",
	"invalid tileset reference",
	"invalid tilemap reference",
	"invalid spriteset reference",
	"invalid palette reference",
	"invalid sequence reference",
	"invalid sequence pack reference",
	"invalid bitmap reference",
	"null argument",
	"resource not found",
	"invalid resource format",
	"invalid dimensions",
	"unsupported operation",
	"resource in use",
}

// Error returns a human readable description of the kind.
func (k ErrorKind) Error() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("error %d", uint8(k))
}

// Error is returned by every failing engine operation. Op names the engine
// method; Err carries an underlying cause (decoder errors, os errors) if any.
type Error struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scanline: %s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("scanline: %s: %v", e.Op, e.Kind)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches an ErrorKind target against the error's kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// LastError returns the kind recorded by the most recent fallible operation,
// or ErrNone if it succeeded.
func (e *Engine) LastError() ErrorKind {
	return e.lastErr
}

// SetLastError overrides the recorded kind.
func (e *Engine) SetLastError(kind ErrorKind) {
	e.lastErr = kind
}

func (e *Engine) fail(op string, kind ErrorKind) error {
	e.lastErr = kind
	return &Error{Op: op, Kind: kind}
}

func (e *Engine) failErr(op string, kind ErrorKind, err error) error {
	e.lastErr = kind
	return &Error{Op: op, Kind: kind, Err: err}
}

func (e *Engine) ok() error {
	e.lastErr = ErrNone
	return nil
}

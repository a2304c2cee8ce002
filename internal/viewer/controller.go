package viewer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ezlaw/ezlaw/internal/jsonvalue"
	"github.com/ezlaw/ezlaw/internal/render"
)

// DefaultFileName is used by Download when the document has no name.
const DefaultFileName = "data.json"

// View is what the viewer currently shows.
type View int

const (
	ViewEmpty View = iota
	ViewDocument
	ViewError
)

func (v View) String() string {
	switch v {
	case ViewDocument:
		return "document"
	case ViewError:
		return "error"
	default:
		return "empty"
	}
}

// Controller holds the viewer state: the displayed document, its rendered
// markup, the current error and the chat exchange. It is safe for
// concurrent use. Requests of the same kind are stamped with a sequence
// number and only the latest issued one may change the state.
type Controller struct {
	backend   Backend
	clipboard Clipboard

	mu       sync.Mutex
	view     View
	doc      jsonvalue.Value
	hasDoc   bool
	fileName string
	markup   string
	errMsg   string
	docSeq   uint64

	chatSeq      uint64
	sessionID    string
	lastMessage  string
	lastResponse string
	chatErr      string

	onChange func(View)
}

// Option configures a Controller.
type Option func(*Controller)

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(ctl *Controller) { ctl.clipboard = c }
}

// New creates a controller backed by backend.
func New(backend Backend, opts ...Option) *Controller {
	c := &Controller{backend: backend, clipboard: SystemClipboard{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers fn to run after the displayed view changes.
func (c *Controller) OnChange(fn func(View)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// LoadLaws fetches the dataset and displays it. On failure the view shows
// "Error fetching laws: <reason>" and the returned error is an *Error.
// ErrSuperseded is returned when a newer document change won.
func (c *Controller) LoadLaws(ctx context.Context) error {
	seq := c.nextDocSeq()

	body, err := c.backend.GetLaws(ctx)

	c.mu.Lock()
	if seq != c.docSeq {
		c.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		verr := asViewerError(err)
		c.errMsg = "Error fetching laws: " + verr.Message
		c.view = ViewError
		c.mu.Unlock()
		c.changed(ViewError)
		return verr
	}

	info, _ := body.Get("dataset_info")
	files, _ := body.Get("sample_files")
	data, _ := body.Get("data")
	display := jsonvalue.ObjectValue(
		jsonvalue.Member{Key: "LegiScan_Dataset_Info", Value: info},
		jsonvalue.Member{Key: "Sample_Files_Included", Value: files},
		jsonvalue.Member{Key: "Extracted_Legal_Documents", Value: data},
	)
	name, _ := info.Get("session_name")
	c.displayLocked(display, "LegiScan Dataset - "+titlePart(name))
	c.mu.Unlock()
	c.changed(ViewDocument)
	return nil
}

// Display shows doc under filename, replacing any error.
func (c *Controller) Display(doc jsonvalue.Value, filename string) {
	c.mu.Lock()
	c.docSeq++
	c.displayLocked(doc, filename)
	c.mu.Unlock()
	c.changed(ViewDocument)
}

func (c *Controller) displayLocked(doc jsonvalue.Value, filename string) {
	c.doc = doc
	c.hasDoc = true
	c.fileName = filename
	c.markup = render.Render(doc)
	c.errMsg = ""
	c.view = ViewDocument
}

// Clear drops the document and any error.
func (c *Controller) Clear() {
	c.mu.Lock()
	c.docSeq++
	c.doc = jsonvalue.Value{}
	c.hasDoc = false
	c.fileName = ""
	c.markup = ""
	c.errMsg = ""
	c.view = ViewEmpty
	c.mu.Unlock()
	c.changed(ViewEmpty)
}

// View reports what is currently shown.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Document returns the current document and whether there is one.
func (c *Controller) Document() (jsonvalue.Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc, c.hasDoc
}

// FileName returns the display name of the current document.
func (c *Controller) FileName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fileName
}

// Markup returns the rendered document.
func (c *Controller) Markup() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.markup
}

// Err returns the message of the error being shown, or "".
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Pretty returns the current document as two-space indented JSON.
func (c *Controller) Pretty() ([]byte, error) {
	c.mu.Lock()
	doc, has := c.doc, c.hasDoc
	c.mu.Unlock()
	if !has {
		return nil, ErrNoDocument
	}
	return doc.Pretty()
}

// Copy puts the pretty-printed document on the clipboard.
func (c *Controller) Copy() error {
	text, err := c.Pretty()
	if err != nil {
		return err
	}
	if err := c.clipboard.WriteAll(string(text)); err != nil {
		return &Error{Kind: KindClipboard, Message: "Failed to copy to clipboard", Err: err}
	}
	return nil
}

// Download writes the pretty-printed document into dir and returns the
// path written. The file is named after the document, or data.json.
func (c *Controller) Download(dir string) (string, error) {
	c.mu.Lock()
	doc, has, name := c.doc, c.hasDoc, c.fileName
	c.mu.Unlock()
	if !has {
		return "", ErrNoDocument
	}
	text, err := doc.Pretty()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, downloadName(name))
	if err := os.WriteFile(path, text, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Chat sends message to the chatbot within the controller's session and
// returns the answer. Failures are stored as "Error contacting chatbot:
// <reason>" without touching the displayed document.
func (c *Controller) Chat(ctx context.Context, message string) (string, error) {
	c.mu.Lock()
	c.chatSeq++
	seq := c.chatSeq
	session := c.sessionID
	c.lastMessage = message
	c.mu.Unlock()

	resp, err := c.backend.Chat(ctx, session, message)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.chatSeq {
		return "", ErrSuperseded
	}
	if err != nil {
		verr := asViewerError(err)
		c.chatErr = "Error contacting chatbot: " + verr.Message
		c.lastResponse = ""
		return "", verr
	}
	if resp.SessionID != "" {
		c.sessionID = resp.SessionID
	}
	c.chatErr = ""
	c.lastResponse = resp.Response
	return resp.Response, nil
}

// ChatState returns the last message sent, the answer that was applied and
// the chat error, if any.
func (c *Controller) ChatState() (message, response, errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastMessage, c.lastResponse, c.chatErr
}

// SessionID returns the chat session the server assigned.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *Controller) nextDocSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docSeq++
	return c.docSeq
}

func (c *Controller) changed(v View) {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(v)
	}
}

// asViewerError normalizes err so every failure has a user message.
func asViewerError(err error) *Error {
	var verr *Error
	if errors.As(err, &verr) {
		return verr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return networkError(err)
	}
	return &Error{Kind: KindApplication, Message: err.Error(), Err: err}
}

// titlePart formats a session name the way it is shown in the title.
func titlePart(v jsonvalue.Value) string {
	if v.Kind() == jsonvalue.String {
		return v.Str()
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

// downloadName turns a display name into a safe .json file name.
func downloadName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultFileName
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	if !strings.HasSuffix(strings.ToLower(name), ".json") {
		name += ".json"
	}
	return name
}

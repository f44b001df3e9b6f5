// Package session holds the interaction controller: the single mutable
// session state behind the editor view and the handlers that change it.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ZaguanLabs/codelai"
)

// ExampleCode is the snippet a new session starts with.
const ExampleCode = `// 这是一个示例函数
// 它计算两个数字的和
function calculateSum(a, b) {
    console.log("开始计算...");

    // 如果输入无效，返回错误
    if (typeof a !== 'number' || typeof b !== 'number') {
        throw new Error("参数必须是数字");
    }

    const 结果 = a + b;
    return 结果;
}`

// DefaultFileName names the input until a file is uploaded.
const DefaultFileName = "example.js"

// DownloadPrefix is prepended to the input file name for downloads.
const DownloadPrefix = "translated_"

// FileReadFailedMessage is shown when an upload cannot be read.
const FileReadFailedMessage = "Failed to read file"

var (
	// ErrBlankInput is returned by Translate when the input is blank.
	ErrBlankInput = errors.New("input is blank")
	// ErrInFlight is returned by Translate while another translation runs.
	ErrInFlight = errors.New("a translation is already in progress")
	// ErrClosed is returned once the controller has been closed.
	ErrClosed = errors.New("session is closed")
)

// Client is the translation client the controller drives.
type Client interface {
	Translate(ctx context.Context, req codelai.TranslationRequest) (*codelai.TranslationResult, error)
}

// State is a snapshot of the session.
type State struct {
	Input      string           `json:"input"`
	Output     string           `json:"output"`
	Language   codelai.Language `json:"language"`
	Mode       codelai.Mode     `json:"mode"`
	TargetLang string           `json:"targetLang"`
	InFlight   bool             `json:"inFlight"`
	Error      string           `json:"error,omitempty"`
	FileName   string           `json:"fileName"`
}

// Attachment is a file offered for download.
type Attachment struct {
	Name        string
	ContentType string
	Content     string
}

// Controller owns the session state. All methods are safe for concurrent
// use; the lock is never held while the translation client runs.
type Controller struct {
	client Client

	mu         sync.Mutex
	state      State
	generation uint64 // bumped on every upload
	closed     bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithTargetLang sets the initial target natural language.
func WithTargetLang(lang string) Option {
	return func(c *Controller) {
		c.state.TargetLang = codelai.NormalizeLocale(lang)
	}
}

// WithMode sets the initial translation mode.
func WithMode(mode codelai.Mode) Option {
	return func(c *Controller) {
		if mode.Valid() {
			c.state.Mode = mode
		}
	}
}

// New creates a controller with the example snippet loaded.
func New(client Client, opts ...Option) *Controller {
	c := &Controller{
		client: client,
		state: State{
			Input:      ExampleCode,
			Language:   codelai.DefaultLanguage,
			Mode:       codelai.ModeFull,
			TargetLang: codelai.DefaultTargetLang,
			FileName:   DefaultFileName,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CanTranslate reports whether Translate would dispatch a request now.
func (c *Controller) CanTranslate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && !c.state.InFlight && strings.TrimSpace(c.state.Input) != ""
}

// SetInput replaces the input text. Editing is allowed while a translation
// is in flight.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Input = text
}

// SetLanguage selects the code language.
func (c *Controller) SetLanguage(lang codelai.Language) error {
	if !codelai.IsSupported(lang) {
		return &codelai.InputError{Field: "language", Message: fmt.Sprintf("unsupported language %q", lang)}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Language = lang
	return nil
}

// SetMode selects the translation mode.
func (c *Controller) SetMode(mode codelai.Mode) error {
	if !mode.Valid() {
		return &codelai.InputError{Field: "mode", Message: fmt.Sprintf("unknown mode %q", mode)}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Mode = mode
	return nil
}

// SetTargetLang selects the natural language to translate into.
func (c *Controller) SetTargetLang(lang string) error {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return &codelai.InputError{Field: "target language", Message: "must not be empty"}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.TargetLang = codelai.NormalizeLocale(lang)
	return nil
}

// DismissError clears the last error.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Error = ""
}

// Upload loads a file as the new input. The language is inferred from the
// file name and the previous output is cleared. If r cannot be read, the
// state is left as it was apart from the error message.
func (c *Controller) Upload(name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		c.mu.Lock()
		c.state.Error = FileReadFailedMessage
		c.mu.Unlock()
		return &codelai.FileReadError{Name: name, Cause: err}
	}

	if name == "" {
		name = DefaultFileName
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Input = string(data)
	c.state.FileName = name
	c.state.Language = codelai.LanguageFromFilename(name)
	c.state.Output = ""
	c.generation++
	return nil
}

// Translate sends the current input to the translation client. It returns
// ErrBlankInput or ErrInFlight without calling the client, and the client's
// error on failure. A result that arrives after a newer upload or after
// Close is dropped.
func (c *Controller) Translate(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if strings.TrimSpace(c.state.Input) == "" {
		c.mu.Unlock()
		return ErrBlankInput
	}
	if c.state.InFlight {
		c.mu.Unlock()
		return ErrInFlight
	}

	req := codelai.TranslationRequest{
		SourceCode: c.state.Input,
		Language:   c.state.Language,
		Mode:       c.state.Mode,
		TargetLang: c.state.TargetLang,
	}
	gen := c.generation
	c.state.InFlight = true
	c.state.Error = ""
	c.mu.Unlock()

	result, err := c.client.Translate(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.InFlight = false

	if c.closed {
		return ErrClosed
	}
	if err != nil {
		c.state.Error = errorMessage(err)
		return err
	}
	if gen != c.generation {
		// A new file was loaded while translating; this output belongs to
		// the old one.
		return nil
	}
	c.state.Output = result.Code
	c.state.Error = ""
	return nil
}

// Download returns the current output as an attachment named after the
// input file. It returns false when there is no output.
func (c *Controller) Download() (Attachment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Output == "" {
		return Attachment{}, false
	}
	return Attachment{
		Name:        DownloadPrefix + c.state.FileName,
		ContentType: "text/plain; charset=utf-8",
		Content:     c.state.Output,
	}, true
}

// Close disposes of the session. A translation still running completes but
// its result is ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func errorMessage(err error) string {
	var te *codelai.TranslationError
	if errors.As(err, &te) {
		return te.Message
	}
	var ie *codelai.InputError
	if errors.As(err, &ie) {
		return ie.Error()
	}
	if errors.Is(err, codelai.ErrEmptySource) {
		return "Nothing to translate."
	}
	return "Something went wrong during translation."
}

package viewer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ezlaw/ezlaw/internal/chat"
	"github.com/ezlaw/ezlaw/internal/jsonvalue"
)

const lawsBody = `{"success":true,"dataset_info":{"state_id":1,"session_name":"Regular Session 2025","total_files":3,"processed_files":2},"sample_files":["b.json","a.json"],"data":{"b.json":{"x":1},"a.json":[true,null]}}`

func mustParse(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return v
}

// fakeBackend answers from queued functions so tests control completion order.
type fakeBackend struct {
	mu    sync.Mutex
	laws  []func() (jsonvalue.Value, error)
	chats []func() (*chat.Response, error)
	seen  []string
}

func (f *fakeBackend) GetLaws(ctx context.Context) (jsonvalue.Value, error) {
	f.mu.Lock()
	fn := f.laws[0]
	f.laws = f.laws[1:]
	f.mu.Unlock()
	return fn()
}

func (f *fakeBackend) Chat(ctx context.Context, sessionID, message string) (*chat.Response, error) {
	f.mu.Lock()
	fn := f.chats[0]
	f.chats = f.chats[1:]
	f.seen = append(f.seen, sessionID)
	f.mu.Unlock()
	return fn()
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func TestLoadLawsDisplaysDataset(t *testing.T) {
	body := mustParse(t, lawsBody)
	b := &fakeBackend{laws: []func() (jsonvalue.Value, error){
		func() (jsonvalue.Value, error) { return body, nil },
	}}
	c := New(b)

	var views []View
	c.OnChange(func(v View) { views = append(views, v) })

	if err := c.LoadLaws(context.Background()); err != nil {
		t.Fatalf("LoadLaws: %v", err)
	}
	if c.View() != ViewDocument {
		t.Errorf("view = %v", c.View())
	}
	if c.FileName() != "LegiScan Dataset - Regular Session 2025" {
		t.Errorf("file name = %q", c.FileName())
	}
	doc, ok := c.Document()
	if !ok {
		t.Fatal("expected a document")
	}
	var keys []string
	for _, m := range doc.Members() {
		keys = append(keys, m.Key)
	}
	if strings.Join(keys, ",") != "LegiScan_Dataset_Info,Sample_Files_Included,Extracted_Legal_Documents" {
		t.Errorf("display keys = %v", keys)
	}
	docs, _ := doc.Get("Extracted_Legal_Documents")
	if ms := docs.Members(); len(ms) != 2 || ms[0].Key != "b.json" {
		t.Errorf("documents out of order: %+v", ms)
	}
	if !strings.Contains(c.Markup(), `<span class="json-key">&#34;Sample_Files_Included&#34;</span>`) {
		t.Errorf("markup missing key span: %s", c.Markup())
	}
	if c.Err() != "" {
		t.Errorf("unexpected error %q", c.Err())
	}
	if len(views) != 1 || views[0] != ViewDocument {
		t.Errorf("change events = %v", views)
	}
}

func TestLoadLawsErrorNormalization(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    Kind
		wantMsg string
	}{
		{"application", applicationError("LegiScan API returned error status"), KindApplication, "Error fetching laws: LegiScan API returned error status"},
		{"network", networkError(errors.New("connection refused")), KindNetwork, "Error fetching laws: connection refused"},
		{"plain", errors.New("odd failure"), KindApplication, "Error fetching laws: odd failure"},
		{"canceled", context.Canceled, KindNetwork, "Error fetching laws: context canceled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.err
			b := &fakeBackend{laws: []func() (jsonvalue.Value, error){
				func() (jsonvalue.Value, error) { return jsonvalue.Value{}, err },
			}}
			c := New(b)
			got := c.LoadLaws(context.Background())
			if !errors.Is(got, &Error{Kind: tt.kind}) {
				t.Errorf("error kind: got %v, want %s", got, tt.kind)
			}
			if c.Err() != tt.wantMsg {
				t.Errorf("Err() = %q, want %q", c.Err(), tt.wantMsg)
			}
			if c.View() != ViewError {
				t.Errorf("view = %v, want error", c.View())
			}
		})
	}
}

func TestLoadLawsLatestWins(t *testing.T) {
	release := make(chan struct{})
	first := mustParse(t, `{"success":true,"dataset_info":{"session_name":"old"},"sample_files":[],"data":{}}`)
	second := mustParse(t, `{"success":true,"dataset_info":{"session_name":"new"},"sample_files":[],"data":{}}`)
	b := &fakeBackend{laws: []func() (jsonvalue.Value, error){
		func() (jsonvalue.Value, error) { <-release; return first, nil },
		func() (jsonvalue.Value, error) { return second, nil },
	}}
	c := New(b)

	done := make(chan error)
	go func() { done <- c.LoadLaws(context.Background()) }()

	// Wait until the first request has taken its queued answer.
	for {
		b.mu.Lock()
		n := len(b.laws)
		b.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if err := c.LoadLaws(context.Background()); err != nil {
		t.Fatalf("second LoadLaws: %v", err)
	}
	close(release)
	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("first LoadLaws: got %v, want ErrSuperseded", err)
	}
	if c.FileName() != "LegiScan Dataset - new" {
		t.Errorf("stale response applied: %q", c.FileName())
	}
}

func TestClearSupersedesPendingLoad(t *testing.T) {
	release := make(chan struct{})
	b := &fakeBackend{laws: []func() (jsonvalue.Value, error){
		func() (jsonvalue.Value, error) { <-release; return mustParse(t, lawsBody), nil },
	}}
	c := New(b)

	done := make(chan error)
	go func() { done <- c.LoadLaws(context.Background()) }()
	for {
		b.mu.Lock()
		n := len(b.laws)
		b.mu.Unlock()
		if n == 0 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	c.Clear()
	close(release)

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("got %v, want ErrSuperseded", err)
	}
	if c.View() != ViewEmpty {
		t.Errorf("view = %v, want empty", c.View())
	}
}

func TestDisplayReplacesError(t *testing.T) {
	b := &fakeBackend{laws: []func() (jsonvalue.Value, error){
		func() (jsonvalue.Value, error) { return jsonvalue.Value{}, applicationError("x") },
	}}
	c := New(b)
	c.LoadLaws(context.Background())

	c.Display(mustParse(t, `{"a":1}`), "local.json")
	if c.Err() != "" || c.View() != ViewDocument {
		t.Errorf("error not cleared: %q %v", c.Err(), c.View())
	}

	c.Clear()
	if _, ok := c.Document(); ok {
		t.Error("document should be cleared")
	}
	if c.FileName() != "" || c.Markup() != "" {
		t.Error("clear should reset file name and markup")
	}
}

func TestCopy(t *testing.T) {
	clip := &fakeClipboard{}
	c := New(&fakeBackend{}, WithClipboard(clip))

	if err := c.Copy(); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
	if clip.text != "" {
		t.Error("clipboard written without a document")
	}

	c.Display(mustParse(t, `{"b":[1,2],"a":"<x>"}`), "doc.json")
	if err := c.Copy(); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	want := "{\n  \"b\": [\n    1,\n    2\n  ],\n  \"a\": \"<x>\"\n}"
	if clip.text != want {
		t.Errorf("clipboard = %q, want %q", clip.text, want)
	}

	clip.err = errors.New("no display")
	err := c.Copy()
	if !errors.Is(err, &Error{Kind: KindClipboard}) || err.Error() != "Failed to copy to clipboard" {
		t.Errorf("unexpected copy error: %v", err)
	}
}

func TestDownload(t *testing.T) {
	dir := t.TempDir()
	c := New(&fakeBackend{}, WithClipboard(&fakeClipboard{}))

	if _, err := c.Download(dir); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}

	c.Display(mustParse(t, `{"a":1}`), "")
	path, err := c.Download(dir)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if filepath.Base(path) != "data.json" {
		t.Errorf("path = %q, want data.json", path)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "{\n  \"a\": 1\n}" {
		t.Errorf("file contents = %q", got)
	}

	c.Display(mustParse(t, `[]`), "LegiScan Dataset - 2025/2026")
	path, err = c.Download(dir)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if filepath.Base(path) != "LegiScan Dataset - 2025_2026.json" {
		t.Errorf("path = %q", path)
	}
}

func TestDownloadNameMatchesContents(t *testing.T) {
	dir := t.TempDir()
	c := New(&fakeBackend{})
	docs := map[string]jsonvalue.Value{
		"alpha": mustParse(t, `"alpha"`),
		"beta":  mustParse(t, `"beta"`),
	}
	c.Display(docs["alpha"], "alpha")

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			name := "alpha"
			if i%2 == 1 {
				name = "beta"
			}
			c.Display(docs[name], name)
		}
	}()
	defer func() {
		close(stop)
		wg.Wait()
	}()

	for i := 0; i < 200; i++ {
		path, err := c.Download(dir)
		if err != nil {
			t.Fatalf("Download: %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		if string(got) != `"`+name+`"` {
			t.Fatalf("%s holds %s", filepath.Base(path), got)
		}
	}
}

func TestDownloadName(t *testing.T) {
	tests := map[string]string{
		"":               "data.json",
		"  ":             "data.json",
		"bill.json":      "bill.json",
		"Bill.JSON":      "Bill.JSON",
		"a/b":            "a_b.json",
		"Session 2025.1": "Session 2025.1.json",
		`x:y*z?"<>|\w`:   "x_y_z______w.json",
	}
	for in, want := range tests {
		if got := downloadName(in); got != want {
			t.Errorf("downloadName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestChatKeepsSession(t *testing.T) {
	b := &fakeBackend{chats: []func() (*chat.Response, error){
		func() (*chat.Response, error) {
			return &chat.Response{Success: true, Response: "first", SessionID: "s-1"}, nil
		},
		func() (*chat.Response, error) { return nil, applicationError("Chatbot is not configured") },
	}}
	c := New(b)
	c.Display(mustParse(t, `1`), "one.json")

	answer, err := c.Chat(context.Background(), "hello")
	if err != nil || answer != "first" {
		t.Fatalf("Chat: %q %v", answer, err)
	}
	if c.SessionID() != "s-1" {
		t.Errorf("session = %q", c.SessionID())
	}

	if _, err := c.Chat(context.Background(), "again"); err == nil {
		t.Fatal("expected error")
	}
	msg, resp, chatErr := c.ChatState()
	if msg != "again" || resp != "" || chatErr != "Error contacting chatbot: Chatbot is not configured" {
		t.Errorf("chat state = %q %q %q", msg, resp, chatErr)
	}
	if b.seen[1] != "s-1" {
		t.Errorf("second request session = %q", b.seen[1])
	}
	// Chat failures leave the document alone.
	if c.View() != ViewDocument || c.Err() != "" {
		t.Errorf("document view disturbed: %v %q", c.View(), c.Err())
	}
}

func TestChatLatestWins(t *testing.T) {
	release := make(chan struct{})
	b := &fakeBackend{chats: []func() (*chat.Response, error){
		func() (*chat.Response, error) {
			<-release
			return &chat.Response{Success: true, Response: "old", SessionID: "s-old"}, nil
		},
		func() (*chat.Response, error) {
			return &chat.Response{Success: true, Response: "new", SessionID: "s-new"}, nil
		},
	}}
	c := New(b)

	done := make(chan error)
	go func() {
		_, err := c.Chat(context.Background(), "first")
		done <- err
	}()
	for {
		b.mu.Lock()
		n := len(b.chats)
		b.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	answer, err := c.Chat(context.Background(), "second")
	if err != nil || answer != "new" {
		t.Fatalf("second Chat: %q %v", answer, err)
	}
	close(release)
	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("first Chat: got %v, want ErrSuperseded", err)
	}
	msg, resp, chatErr := c.ChatState()
	if msg != "second" || resp != "new" || chatErr != "" {
		t.Errorf("chat state = %q %q %q", msg, resp, chatErr)
	}
	if c.SessionID() != "s-new" {
		t.Errorf("session = %q, want s-new", c.SessionID())
	}
}

func TestClientGetLaws(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/get-laws" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(lawsBody))
	}))
	defer srv.Close()

	v, err := NewClient(srv.URL+"/", nil).GetLaws(context.Background())
	if err != nil {
		t.Fatalf("GetLaws: %v", err)
	}
	if files, _ := v.Get("sample_files"); files.Len() != 2 {
		t.Errorf("sample_files = %d entries", files.Len())
	}
}

func TestClientGetLawsErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"error field", http.StatusBadRequest, `{"success":false,"error":"No zip data found in API response"}`, "No zip data found in API response"},
		{"no error field", http.StatusBadGateway, `{"success":false}`, "HTTP error! status: 502"},
		{"not json", http.StatusInternalServerError, `<html>oops</html>`, "HTTP error! status: 500"},
		{"success false", http.StatusOK, `{"success":false,"error":"quota"}`, "quota"},
		{"success missing", http.StatusOK, `{}`, "Unknown error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, nil).GetLaws(context.Background())
			if !errors.Is(err, &Error{Kind: KindApplication}) {
				t.Fatalf("expected application error, got %v", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(NewClient(url, nil))
	err := c.LoadLaws(context.Background())
	if !errors.Is(err, &Error{Kind: KindNetwork}) {
		t.Fatalf("expected network error, got %v", err)
	}
	if !strings.HasPrefix(c.Err(), "Error fetching laws: ") {
		t.Errorf("Err() = %q", c.Err())
	}
}

func TestClientChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chatbot" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"response":"hi","session_id":"abc"}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, nil).Chat(context.Background(), "", "hello")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Response != "hi" || resp.SessionID != "abc" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestClientChatError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":"Message is required"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).Chat(context.Background(), "", "")
	if err == nil || err.Error() != "Message is required" {
		t.Errorf("unexpected error %v", err)
	}
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/hyperjump/sozoku/internal/models"
)

type fakeService struct {
	answer  *models.Answer
	frags   []string
	sa      *models.StructuredAnswer
	err     error
	queries []string
}

func (f *fakeService) Answer(ctx context.Context, query string) (*models.Answer, error) {
	f.queries = append(f.queries, query)
	return f.answer, f.err
}

func (f *fakeService) Stream(ctx context.Context, query string, emit func(string) error) error {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return f.err
	}
	for _, s := range f.frags {
		if err := emit(s); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeService) AnswerStructured(ctx context.Context, query string) (*models.StructuredAnswer, error) {
	f.queries = append(f.queries, query)
	return f.sa, f.err
}

type fakeClassifier struct{ scores *models.CategoryScores }

func (f fakeClassifier) Classify(ctx context.Context, query string) (*models.CategoryScores, error) {
	return f.scores, nil
}

func TestIsExit(t *testing.T) {
	for _, in := range []string{"終了", "exit", "quit", " EXIT ", "Quit\n", "　終了　"} {
		if !IsExit(in) {
			t.Errorf("IsExit(%q) = false", in)
		}
	}
	for _, in := range []string{"", "exit now", "終わり", "q"} {
		if IsExit(in) {
			t.Errorf("IsExit(%q) = true", in)
		}
	}
}

func TestREPL_AnswerAndExit(t *testing.T) {
	svc := &fakeService{answer: &models.Answer{Text: "4,800万円です。", Sources: []string{"u1"}}}
	in := strings.NewReader("基礎控除は？\n\n   \nexit\nnot reached\n")
	var out bytes.Buffer

	if err := NewREPL(in, &out, AnswerResponder{Service: svc}).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := Greeting + "\n" +
		Prompt + "\nAI: 4,800万円です。\n\n### 出典元URL:\n\nu1\n" +
		Prompt + Prompt + Prompt + Farewell + "\n"
	if out.String() != want {
		t.Errorf("output:\n%q\nwant:\n%q", out.String(), want)
	}
	if len(svc.queries) != 1 {
		t.Errorf("queries: %v", svc.queries)
	}
}

func TestREPL_StreamMode(t *testing.T) {
	svc := &fakeService{frags: []string{"相続", "税", "\n\n### 出典元URL:\n\nu1"}}
	var out bytes.Buffer
	err := NewREPL(strings.NewReader("q\n終了\n"), &out, AnswerResponder{Service: svc, Stream: true}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "\nAI: 相続税\n\n### 出典元URL:\n\nu1\n") {
		t.Errorf("output: %q", out.String())
	}
}

func TestREPL_EndOfInput(t *testing.T) {
	svc := &fakeService{answer: &models.Answer{Text: "a"}}
	var out bytes.Buffer
	if err := NewREPL(strings.NewReader("q"), &out, AnswerResponder{Service: svc}).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), Farewell) {
		t.Error("farewell printed without an exit keyword")
	}
}

func TestREPL_UpstreamErrorStopsLoop(t *testing.T) {
	svc := &fakeService{err: models.ErrUpstreamModel}
	var out bytes.Buffer
	err := NewREPL(strings.NewReader("q1\nq2\n"), &out, AnswerResponder{Service: svc}).Run(context.Background())
	if !errors.Is(err, models.ErrUpstreamModel) {
		t.Fatalf("got %v", err)
	}
	if len(svc.queries) != 1 {
		t.Errorf("loop continued after failure: %v", svc.queries)
	}
}

func TestREPL_ValidationErrorContinues(t *testing.T) {
	svc := &fakeService{err: models.ErrValidation}
	var out bytes.Buffer
	err := NewREPL(strings.NewReader("q1\nq2\nquit\n"), &out, StructuredResponder{Service: svc}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(svc.queries) != 2 {
		t.Errorf("queries: %v", svc.queries)
	}
	if !strings.Contains(out.String(), "エラー: ") {
		t.Errorf("output: %q", out.String())
	}
}

func TestStructuredResponder(t *testing.T) {
	svc := &fakeService{sa: &models.StructuredAnswer{Answer: "答え", Confidence: 0.75, Steps: []string{"一", "二"}}}
	var out bytes.Buffer
	if err := (StructuredResponder{Service: svc}).Respond(context.Background(), "q", &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != svc.sa.String() {
		t.Errorf("got %q", out.String())
	}
}

func TestClassifyResponder(t *testing.T) {
	c := ClassifyResponder{Classifier: fakeClassifier{scores: &models.CategoryScores{InheritanceTax: 1, TaxRelated: 1}}}
	var out bytes.Buffer
	if err := c.Respond(context.Background(), "q", &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "所得税: 0.0, 法人税: 0.0, 相続税: 1.0, 税務関連: 1.0" {
		t.Errorf("got %q", out.String())
	}
}

func TestWriteStatus(t *testing.T) {
	st := &IndexStatus{IndexPath: "./index", Chunks: 12, Sources: 3, VectorIndexSize: 12, VectorIndexType: "memory", DiskUsageBytes: 2048}

	var buf bytes.Buffer
	if err := WriteStatus(&buf, st, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded IndexStatus
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded != *st {
		t.Errorf("decoded %+v", decoded)
	}

	buf.Reset()
	if err := WriteStatus(&buf, st, OutputText); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Chunks:       12", "Sources:      3", "12 (memory)", "2.0 KiB"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("text output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{0: "0 B", 1023: "1023 B", 1024: "1.0 KiB", 1536: "1.5 KiB", 5 << 20: "5.0 MiB"}
	for n, want := range tests {
		if got := FormatBytes(n); got != want {
			t.Errorf("FormatBytes(%d) = %q, want %q", n, got, want)
		}
	}
}

package research

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoCategories = `**1. Quality Control**
* **Description:** Checking widgets.
* **Research Prompt:** How are widgets inspected?
* **Key Concepts:** Sampling, Tolerances

**2. Supply Chain**
* **Description:** Sourcing widget parts.
* **Research Prompt:** Where do widget parts come from?
* **Key Concepts:** Logistics
`

type fakeResearcher struct {
	calls   []string
	failOn  map[int]bool
	results map[int]*Result
}

func (f *fakeResearcher) Query(_ context.Context, prompt string) (*Result, error) {
	f.calls = append(f.calls, prompt)
	n := len(f.calls)
	if f.failOn[n] {
		return nil, errors.New("status 500")
	}
	if r, ok := f.results[n]; ok {
		return r, nil
	}
	return &Result{Content: "answer", Citations: []string{"http://a", "http://b"}}, nil
}

func newTestEngine(response string, researcher Researcher) *Engine {
	e := NewEngine(&fakeCompleter{response: response}, researcher)
	e.Rand = seeded(11)
	return e
}

func TestEngine_Run_EndToEnd(t *testing.T) {
	researcher := &fakeResearcher{}
	e := newTestEngine(twoCategories, researcher)

	report, err := e.Run(context.Background(), RunRequest{Field: "Testing", Topic: "Widgets", Count: 2, Depth: 3})
	require.NoError(t, err)

	assert.NotEmpty(t, report.CycleID)
	assert.Len(t, report.Categories, 2)
	require.Len(t, report.Prompts, 2)
	require.Len(t, researcher.calls, 2)
	require.Len(t, report.Items, 2)

	for i, call := range researcher.calls {
		assert.Contains(t, call, `Conduct a comprehensive research on the topic: "`+report.Prompts[i]+`".`)
		assert.Contains(t, call, "Depth of research: 3/5")
		assert.Contains(t, call, "Focus areas: Testing")

		item := report.Items[i]
		assert.Equal(t, i+1, item.Index)
		assert.Equal(t, report.Prompts[i], item.Prompt)
		assert.False(t, item.Failed())
		assert.Contains(t, item.Formatted, "Sources:\n- http://a\n- http://b\n")
	}

	for _, p := range report.Prompts {
		assert.True(t, validPrompt(report.Categories, "Testing", p), "unexpected prompt %q", p)
	}
}

func TestEngine_Run_PartialFailure(t *testing.T) {
	researcher := &fakeResearcher{failOn: map[int]bool{2: true}}
	e := newTestEngine(twoCategories, researcher)

	report, err := e.Run(context.Background(), RunRequest{Field: "Testing", Topic: "Widgets", Count: 3, Depth: 2})
	require.NoError(t, err)
	require.Len(t, report.Items, 3)
	assert.Len(t, researcher.calls, 3)

	assert.False(t, report.Items[0].Failed())
	assert.True(t, report.Items[1].Failed())
	assert.False(t, report.Items[2].Failed())

	assert.Equal(t, NoResponseMessage, report.Items[1].Formatted)
	assert.Contains(t, report.Items[1].Err, "status 500")
	assert.Contains(t, report.Items[0].Formatted, "Research Results:")
	assert.Contains(t, report.Items[2].Formatted, "Research Results:")
}

func TestEngine_Run_GeneratorFailureIsFatal(t *testing.T) {
	boom := errors.New("quota exceeded")
	researcher := &fakeResearcher{}
	e := NewEngine(&fakeCompleter{err: boom}, researcher)

	report, err := e.Run(context.Background(), RunRequest{Field: "f", Topic: "t", Count: 2, Depth: 3})
	assert.Nil(t, report)
	assert.Equal(t, boom, err)
	assert.Empty(t, researcher.calls)
}

func TestEngine_Run_NoCategories(t *testing.T) {
	researcher := &fakeResearcher{}
	e := newTestEngine("The model ignored the format entirely.", researcher)

	report, err := e.Run(context.Background(), RunRequest{Field: "f", Topic: "t", Count: 2, Depth: 3})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrNoCategories)
	assert.Empty(t, researcher.calls)
}

func TestEngine_Run_NoUsableCategories(t *testing.T) {
	researcher := &fakeResearcher{}
	e := newTestEngine("**1. Empty**\n* **Description:** nothing to ask\n**2. Bare**\n", researcher)

	report, err := e.Run(context.Background(), RunRequest{Field: "f", Topic: "t", Count: 3, Depth: 3})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrNoPrompts)
	assert.Empty(t, researcher.calls)
}

func TestEngine_Run_ZeroCount(t *testing.T) {
	researcher := &fakeResearcher{}
	e := newTestEngine("no markers at all", researcher)

	report, err := e.Run(context.Background(), RunRequest{Field: "f", Topic: "t", Count: 0, Depth: 3})
	require.NoError(t, err)
	assert.Empty(t, report.Prompts)
	assert.Empty(t, report.Items)
	assert.Empty(t, researcher.calls)
}

func TestEngine_Run_InvalidDepth(t *testing.T) {
	completer := &fakeCompleter{response: twoCategories}
	e := NewEngine(completer, &fakeResearcher{})

	_, err := e.Run(context.Background(), RunRequest{Field: "f", Topic: "t", Count: 1, Depth: 9})
	assert.ErrorIs(t, err, ErrInvalidDepth)
	assert.Empty(t, completer.prompts)
}

func TestEngine_Run_FocusOverride(t *testing.T) {
	researcher := &fakeResearcher{}
	e := newTestEngine(twoCategories, researcher)

	_, err := e.Run(context.Background(), RunRequest{Field: "Testing", Topic: "Widgets", Count: 1, Depth: 5, Focus: "cost"})
	require.NoError(t, err)
	require.Len(t, researcher.calls, 1)
	assert.Contains(t, researcher.calls[0], "Focus areas: cost")
	assert.Contains(t, researcher.calls[0], "Depth of research: 5/5")
}

func TestEngine_Run_ProgressEvents(t *testing.T) {
	var stages []Stage
	e := newTestEngine(twoCategories, &fakeResearcher{})
	e.OnProgress = func(ev ProgressEvent) { stages = append(stages, ev.Stage) }

	_, err := e.Run(context.Background(), RunRequest{Field: "f", Topic: "t", Count: 2, Depth: 3})
	require.NoError(t, err)

	assert.Equal(t, []Stage{
		StageGenerating, StageSampled,
		StageResearching, StageItemDone,
		StageResearching, StageItemDone,
		StageDone,
	}, stages)
}

func TestEngine_Query_Direct(t *testing.T) {
	researcher := &fakeResearcher{}
	e := NewEngine(&fakeCompleter{}, researcher)

	item := e.Query(context.Background(), "Explain the impact of AI on energy.")
	require.Len(t, researcher.calls, 1)
	assert.Equal(t, "Explain the impact of AI on energy.", researcher.calls[0])
	assert.False(t, item.Failed())
	assert.True(t, strings.HasPrefix(item.Formatted, "Research Results:"))
}

func TestEngine_Query_NilResult(t *testing.T) {
	researcher := &fakeResearcher{results: map[int]*Result{1: nil}}
	e := NewEngine(&fakeCompleter{}, researcher)

	item := e.Query(context.Background(), "anything at all")
	assert.True(t, item.Failed())
	assert.Equal(t, NoResponseMessage, item.Formatted)
}

func TestRunRequest_Validate(t *testing.T) {
	valid := RunRequest{Field: "f", Topic: "t", Count: 4, Depth: 3}

	tests := []struct {
		name    string
		mutate  func(r *RunRequest)
		wantErr string
	}{
		{name: "valid", mutate: func(r *RunRequest) {}},
		{name: "blank field", mutate: func(r *RunRequest) { r.Field = "  " }, wantErr: "field is required"},
		{name: "blank topic", mutate: func(r *RunRequest) { r.Topic = "" }, wantErr: "topic is required"},
		{name: "count too low", mutate: func(r *RunRequest) { r.Count = 0 }, wantErr: "prompt count"},
		{name: "count too high", mutate: func(r *RunRequest) { r.Count = 11 }, wantErr: "prompt count"},
		{name: "depth too high", mutate: func(r *RunRequest) { r.Depth = 6 }, wantErr: "depth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

package newsletter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-feed/internal/domain/entity"
	"newsletter-feed/internal/usecase/newsletter"
)

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "success", newsletter.OutcomeSuccess.String())
	assert.Equal(t, "empty", newsletter.OutcomeEmpty.String())
	assert.Equal(t, "failure", newsletter.OutcomeFailure.String())
	assert.Equal(t, "unknown", newsletter.Outcome(0).String())
}

func TestFetchLatest_Contract(t *testing.T) {
	tests := []struct {
		name    string
		fetch   func(context.Context) newsletter.Result
		want    newsletter.Outcome
		wantErr error
	}{
		{name: "success passes through", fetch: succeed, want: newsletter.OutcomeSuccess},
		{
			name:  "empty keeps reason",
			fetch: func(context.Context) newsletter.Result { return newsletter.Empty("none") },
			want:  newsletter.OutcomeEmpty,
		},
		{
			name:    "panic becomes failure",
			fetch:   func(context.Context) newsletter.Result { panic(errBoom) },
			want:    newsletter.OutcomeFailure,
			wantErr: entity.ErrUpstreamError,
		},
		{
			name:    "success without record",
			fetch:   func(context.Context) newsletter.Result { return newsletter.Result{Outcome: newsletter.OutcomeSuccess} },
			want:    newsletter.OutcomeFailure,
			wantErr: entity.ErrIncompleteRecord,
		},
		{
			name: "success with partial record",
			fetch: func(context.Context) newsletter.Result {
				n := sample()
				n.URL = ""
				return newsletter.Success(n)
			},
			want:    newsletter.OutcomeFailure,
			wantErr: entity.ErrIncompleteRecord,
		},
		{
			name:    "failure without error",
			fetch:   func(context.Context) newsletter.Result { return newsletter.Result{Outcome: newsletter.OutcomeFailure} },
			want:    newsletter.OutcomeFailure,
			wantErr: entity.ErrUpstreamError,
		},
		{
			name:    "zero result",
			fetch:   func(context.Context) newsletter.Result { return newsletter.Result{} },
			want:    newsletter.OutcomeFailure,
			wantErr: entity.ErrUpstreamError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res newsletter.Result
			require.NotPanics(t, func() {
				res = newsletter.FetchLatest(context.Background(), &stubSource{fetch: tt.fetch})
			})
			assert.Equal(t, tt.want, res.Outcome)
			if tt.wantErr != nil {
				assert.ErrorIs(t, res.Err, tt.wantErr)
			}
		})
	}
}

func TestFetchLatest_EmptyDefaultsReason(t *testing.T) {
	res := newsletter.FetchLatest(context.Background(), &stubSource{
		fetch: func(context.Context) newsletter.Result { return newsletter.Empty("") },
	})
	assert.Equal(t, entity.ErrNoContent.Error(), res.Reason)
}

func TestSuccess_CopiesRecord(t *testing.T) {
	n := sample()
	res := newsletter.Success(n)
	n.Title = "changed"
	assert.Equal(t, "Hi", res.Newsletter.Title)
}

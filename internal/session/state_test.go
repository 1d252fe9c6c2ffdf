package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		current State
		event   Event
		prior   State
		want    State
		wantErr error
	}{
		{"page load", Idle, EventOpen, Idle, AwaitingUpload, nil},
		{"reload keeps document", DocumentReady, EventOpen, Idle, DocumentReady, nil},
		{"first upload", AwaitingUpload, EventDocumentAttached, Idle, DocumentReady, nil},
		{"replace upload", DocumentReady, EventDocumentAttached, Idle, DocumentReady, nil},
		{"upload before load", Idle, EventDocumentAttached, Idle, Idle, ErrInvalidTransition},
		{"upload while waiting", AwaitingReply, EventDocumentAttached, DocumentReady, AwaitingReply, ErrInvalidTransition},
		{"submit without document", AwaitingUpload, EventSubmit, Idle, AwaitingReply, nil},
		{"submit with document", DocumentReady, EventSubmit, Idle, AwaitingReply, nil},
		{"double submit", AwaitingReply, EventSubmit, DocumentReady, AwaitingReply, ErrBusy},
		{"submit before load", Idle, EventSubmit, Idle, Idle, ErrInvalidTransition},
		{"reply back to upload", AwaitingReply, EventReply, AwaitingUpload, AwaitingUpload, nil},
		{"reply back to document", AwaitingReply, EventReply, DocumentReady, DocumentReady, nil},
		{"stray reply", DocumentReady, EventReply, DocumentReady, DocumentReady, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.current, tt.event, tt.prior)
			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "awaiting_upload", AwaitingUpload.String())
	assert.Equal(t, "document_ready", DocumentReady.String())
	assert.Equal(t, "awaiting_reply", AwaitingReply.String())
	assert.Equal(t, "submit", EventSubmit.String())
}

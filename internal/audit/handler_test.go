package audit_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leadflow/meeting-router/internal/audit"
)

type stubPort struct {
	username, agent string
	err             error
}

func (s *stubPort) CreateManualAssignment(ctx context.Context, username, agentName string) error {
	s.username, s.agent = username, agentName
	return s.err
}

func TestDocumentRecordsAssignment(t *testing.T) {
	port := &stubPort{}
	h := audit.NewHandler(port, zap.NewNop().Sugar())

	req := httptest.NewRequest("POST", "/api/assignments/manual",
		strings.NewReader(`{"username":"moshe","agentName":"דנה לוי"}`))
	rec := httptest.NewRecorder()
	h.Document(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "moshe", port.username)
	assert.Equal(t, "דנה לוי", port.agent)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestDocumentRejectsMissingFields(t *testing.T) {
	h := audit.NewHandler(&stubPort{}, zap.NewNop().Sugar())

	rec := httptest.NewRecorder()
	h.Document(rec, httptest.NewRequest("POST", "/x", strings.NewReader(`{"username":"moshe"}`)))
	assert.Equal(t, 400, rec.Code)

	rec = httptest.NewRecorder()
	h.Document(rec, httptest.NewRequest("POST", "/x", strings.NewReader(`not json`)))
	assert.Equal(t, 400, rec.Code)
}

func TestDocumentPortFailure(t *testing.T) {
	h := audit.NewHandler(&stubPort{err: errors.New("table missing")}, zap.NewNop().Sugar())

	rec := httptest.NewRecorder()
	h.Document(rec, httptest.NewRequest("POST", "/x",
		strings.NewReader(`{"username":"moshe","agentName":"x"}`)))
	assert.Equal(t, 500, rec.Code)
}

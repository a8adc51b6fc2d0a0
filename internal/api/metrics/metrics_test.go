package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Fritte91/247LocalFinest/internal/core/session"
)

func TestSessionObserver_CountsBothKeys(t *testing.T) {
	before := testutil.ToFloat64(SessionLoadsTotal.WithLabelValues("cart", "corrupt"))

	SessionObserver{}.SessionLoaded(session.LoadReport{User: session.LoadAbsent, Cart: session.LoadCorrupt})

	assert.Equal(t, before+1, testutil.ToFloat64(SessionLoadsTotal.WithLabelValues("cart", "corrupt")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(SessionLoadsTotal.WithLabelValues("user", "absent")), 1.0)
}

func TestWriteBehindFailed_LabelsByBlobKind(t *testing.T) {
	before := testutil.ToFloat64(PersistenceFailuresTotal.WithLabelValues("cart", "async"))
	WriteBehindFailed("localfinest:session:abc:cart", errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(PersistenceFailuresTotal.WithLabelValues("cart", "async")))

	assert.Equal(t, "user", blobKind("session:x:user"))
	assert.Equal(t, "plain", blobKind("plain"))
}

func TestRegisterGaugeFunc_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		RegisterGaugeFunc("test_gauge", "test", func() float64 { return 1 })
		RegisterGaugeFunc("test_gauge", "test", func() float64 { return 2 })
	})
}

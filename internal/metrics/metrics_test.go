package metrics_test

import (
	"testing"

	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.CatalogLoad(true)
	m.CatalogLoad(false)
	m.CatalogLoad(false)
	m.CategoryFallback()
	m.CartMutation("add")
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)

	n, err := testutil.GatherAndCount(reg, "storefront_catalog_loads_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.CatalogLoad(true)
		m.CategoryFallback()
		m.CartMutation("remove")
		m.SessionOpened()
		m.SessionClosed()
	})
}

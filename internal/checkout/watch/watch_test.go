package watch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scisoft/vnpay-checkout/internal/checkout/page"
)

func TestWatcher_DispatchesProviderForms(t *testing.T) {
	doc := page.NewDocument()

	var seen []*page.Element
	New("vnpay", func(_ context.Context, form *page.Element) {
		seen = append(seen, form)
	}).Start(context.Background(), doc)

	form := page.NewElement("form", "provider", "vnpay")
	doc.Body().AppendChild(form)

	require.Len(t, seen, 1)
	assert.Same(t, form, seen[0])
}

func TestWatcher_IgnoresOtherInsertions(t *testing.T) {
	doc := page.NewDocument()

	calls := 0
	New("vnpay", func(context.Context, *page.Element) { calls++ }).Start(context.Background(), doc)

	doc.Body().AppendChild(page.NewElement("div", "provider", "vnpay"))
	doc.Body().AppendChild(page.NewElement("form", "provider", "other"))
	doc.Body().AppendChild(page.NewElement("form"))

	assert.Equal(t, 0, calls)
}

func TestWatcher_HandlesBatchInsertions(t *testing.T) {
	doc := page.NewDocument()

	calls := 0
	New("vnpay", func(context.Context, *page.Element) { calls++ }).Start(context.Background(), doc)

	err := doc.Body().SetContent(`<form provider="vnpay"></form><div></div><form provider="vnpay"></form>`)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestWatcher_ReinsertionDispatchesAgain(t *testing.T) {
	doc := page.NewDocument()

	calls := 0
	New("vnpay", func(context.Context, *page.Element) { calls++ }).Start(context.Background(), doc)

	form := page.NewElement("form", "provider", "vnpay")
	doc.Body().AppendChild(form)
	form.Detach()
	doc.Body().AppendChild(form)

	assert.Equal(t, 2, calls)
}

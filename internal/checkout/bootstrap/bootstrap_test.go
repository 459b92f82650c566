package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scisoft/vnpay-checkout/internal/checkout/page"
)

type fakeLoader struct {
	calls int
	urls  []string
	err   error
}

func (l *fakeLoader) Load(_ context.Context, url string) error {
	l.calls++
	l.urls = append(l.urls, url)
	return l.err
}

type fakeProvisioner struct {
	forms []*page.Element
	err   error
}

func (p *fakeProvisioner) Provision(_ context.Context, form *page.Element) error {
	p.forms = append(p.forms, form)
	return p.err
}

func pageWithForm(t *testing.T) *page.Document {
	t.Helper()
	doc := page.NewDocument()
	require.NoError(t, doc.Body().SetContent(`<div class="o_payment_form">
		<form provider="vnpay"></form>
	</div>`))
	return doc
}

func TestRun_ProvisionsFormsAlreadyPresent(t *testing.T) {
	doc := pageWithForm(t)
	loader := &fakeLoader{}
	provisioner := &fakeProvisioner{}

	err := New(doc, loader, provisioner, "").Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, []string{ScriptURL}, loader.urls)
	require.Len(t, provisioner.forms, 1)
	assert.Equal(t, "vnpay", provisioner.forms[0].Attr("provider"))
}

func TestRun_ProvisionsFormsInsertedLater(t *testing.T) {
	doc := pageWithForm(t)
	provisioner := &fakeProvisioner{}

	err := New(doc, &fakeLoader{}, provisioner, "").Run(context.Background())
	require.NoError(t, err)
	require.Len(t, provisioner.forms, 1)

	late := page.NewElement("form", "provider", "vnpay")
	doc.Body().AppendChild(late)

	require.Len(t, provisioner.forms, 2)
	assert.Same(t, late, provisioner.forms[1])
}

func TestRun_NoContainerIsNoOp(t *testing.T) {
	doc := page.NewDocument()
	require.NoError(t, doc.Body().SetContent(`<div class="checkout"><form provider="vnpay"></form></div>`))
	loader := &fakeLoader{}
	provisioner := &fakeProvisioner{}

	err := New(doc, loader, provisioner, "").Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, loader.calls)
	assert.Empty(t, provisioner.forms)
}

func TestRun_ScriptLoadFailureStopsStartup(t *testing.T) {
	doc := pageWithForm(t)
	loader := &fakeLoader{err: errors.New("network down")}
	provisioner := &fakeProvisioner{}

	err := New(doc, loader, provisioner, "").Run(context.Background())
	require.Error(t, err)

	assert.Empty(t, provisioner.forms)

	// the watcher was never registered either
	doc.Body().AppendChild(page.NewElement("form", "provider", "vnpay"))
	assert.Empty(t, provisioner.forms)
}

func TestRun_CustomScriptURL(t *testing.T) {
	doc := pageWithForm(t)
	loader := &fakeLoader{}

	err := New(doc, loader, &fakeProvisioner{}, "https://mirror.example/checkout.js").Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"https://mirror.example/checkout.js"}, loader.urls)
}

func TestRun_ProvisionErrorDoesNotStopOtherForms(t *testing.T) {
	doc := page.NewDocument()
	require.NoError(t, doc.Body().SetContent(`<div class="o_payment_form">
		<form provider="vnpay" id="first"></form>
		<form provider="vnpay" id="second"></form>
	</div>`))
	provisioner := &fakeProvisioner{err: errors.New("prepare failed")}

	err := New(doc, &fakeLoader{}, provisioner, "").Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, provisioner.forms, 2)
}

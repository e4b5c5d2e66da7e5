package docflow_test

import (
	"testing"

	docflow "github.com/goliatone/go-docflow"
	"github.com/stretchr/testify/assert"
)

func TestIsValidTypeDocument(t *testing.T) {
	for _, valid := range []string{"FACTURE_ACHAT", "FACTURE_VENTE", "TICKET_CAISSE", "RELEVE_BANCAIRE"} {
		assert.True(t, docflow.IsValidTypeDocument(valid), "expected %q to be valid", valid)
	}

	for _, invalid := range []string{"", "NOTE_DE_FRAIS", "facture_achat"} {
		assert.False(t, docflow.IsValidTypeDocument(invalid), "expected %q to be invalid", invalid)
	}
}

func TestDocumentIsPending(t *testing.T) {
	doc := &docflow.Document{Statut: docflow.StatutEnAttente}
	assert.True(t, doc.IsPending())

	doc.Statut = docflow.StatutValide
	assert.False(t, doc.IsPending())

	doc.Statut = docflow.StatutRejete
	assert.False(t, doc.IsPending())
}

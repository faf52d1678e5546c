package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftPayloadRoundTrip(t *testing.T) {
	age := 30
	form := NewFormState()
	form.Step = StepConfirm
	form.Fields = Fields{
		Name:     "山田太郎",
		Gender:   GenderMale,
		Age:      &age,
		Phone:    "09012345678",
		Email:    "taro@example.com",
		Category: "キッチンカー",
		Genre:    "クレープ",
	}
	form.Documents.Set(SlotBusinessLicense, "https://media.example.com/license.jpg")
	form.TermsAccepted = true

	encoded, err := NewDraftPayload(form).Encode()
	require.NoError(t, err)

	decoded, err := DecodeDraftPayload(encoded)
	require.NoError(t, err)
	assert.Equal(t, form, decoded.RestoreForm())
}

func TestDecodeDraftPayloadBackfillsMissingFields(t *testing.T) {
	// 古い世代の下書きはフィールドが欠けていることがある
	decoded, err := DecodeDraftPayload(`{"version":1,"step":2,"fields":{"name":"山田太郎"}}`)
	require.NoError(t, err)

	form := decoded.RestoreForm()
	assert.Equal(t, StepConfirm, form.Step)
	assert.Equal(t, "山田太郎", form.Fields.Name)
	assert.Nil(t, form.Fields.Age)
	assert.Equal(t, Documents{}, form.Documents)
	assert.False(t, form.TermsAccepted)
	assert.False(t, form.HasViewedTerms)
}

func TestRestoreFormCoercesCorruptStep(t *testing.T) {
	decoded, err := DecodeDraftPayload(`{"version":1,"step":9,"fields":{"name":"山田太郎"}}`)
	require.NoError(t, err)
	assert.Equal(t, StepInput, decoded.RestoreForm().Step)
}

func TestDecodeDraftPayloadRejectsBrokenJSON(t *testing.T) {
	_, err := DecodeDraftPayload(`{"version":`)
	require.Error(t, err)
}

func TestDraftPayloadIsEmpty(t *testing.T) {
	assert.True(t, NewDraftPayload(NewFormState()).IsEmpty())

	form := NewFormState()
	form.Fields.Genre = "たこ焼き"
	assert.False(t, NewDraftPayload(form).IsEmpty())
}

// internal/common/aws/clients_test.go
package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailInput(t *testing.T) {
	in := EmailInput("noreply@example.com", []string{"ops@example.com"}, "Export ready", "See attached")

	assert.Equal(t, "noreply@example.com", *in.Source)
	assert.Equal(t, []string{"ops@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "Export ready", *in.Message.Subject.Data)
	require.NotNil(t, in.Message.Body.Text)
	assert.Equal(t, "See attached", *in.Message.Body.Text.Data)
	assert.Nil(t, in.Message.Body.Html)
}

func TestSMSInput(t *testing.T) {
	in := SMSInput("+15551234567", "done")

	assert.Equal(t, "+15551234567", *in.PhoneNumber)
	assert.Equal(t, "done", *in.Message)
	assert.Equal(t, "", MessageID(nil))
}

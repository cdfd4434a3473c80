package request

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogin(t *testing.T) {
	expectedMap := map[string]string{"email": "email", "password": "***"}
	expected, _ := json.Marshal(expectedMap)
	loginReq := Login{Email: "email", Password: "password"}

	actual, _ := json.Marshal(loginReq)

	assert.EqualValues(t, expected, actual)
	assert.EqualValues(t, "password", loginReq.Password)
}

func TestCreateUserHidesPassword(t *testing.T) {
	param := CreateUser{Email: "staff@example.com", Password: "s3cret-pass"}

	actual, err := json.Marshal(param)
	assert.NoError(t, err)
	assert.NotContains(t, string(actual), "s3cret-pass")

	buf := &bytes.Buffer{}
	logger := zerolog.New(buf)
	logger.Info().Object("user", param).Send()
	assert.NotContains(t, buf.String(), "s3cret-pass")
	assert.Contains(t, buf.String(), "staff@example.com")
}

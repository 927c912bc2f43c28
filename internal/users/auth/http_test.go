// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package auth_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/users/auth"
)

// registerForm builds a valid multipart registration payload with a PNG logo.
func registerForm(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	fields := map[string]string{
		auth.FieldChannelName: "Cool Channel",
		auth.FieldEmail:       "owner@example.com",
		auth.FieldPhone:       "+84901234567",
		auth.FieldPassword:    "hunter2hunter2",
	}
	for name, value := range fields {
		require.NoError(t, form.WriteField(name, value))
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="logo"; filename="logo.png"`)
	header.Set("Content-Type", "image/png")
	part, err := form.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)

	require.NoError(t, form.Close())
	return body, form.FormDataContentType()
}

/*
TestRegisterHandler_EstablishesSession verifies a successful registration
responds 201 with an access token and sets the hardened refresh cookie,
mirroring the login response shape.
*/
func TestRegisterHandler_EstablishesSession(t *testing.T) {
	service := newService(newFakeUserRepository(), &fakeObjectStore{})
	handler := auth.NewHandler(service, t.TempDir())

	body, contentType := registerForm(t)
	request := httptest.NewRequest(http.MethodPost, "/register", body)
	request.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()

	handler.Routes().ServeHTTP(recorder, request)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data[auth.FieldAccessToken])
	assert.Equal(t, "Bearer", envelope.Data[auth.FieldTokenType])
	assert.NotNil(t, envelope.Data[auth.FieldUser])

	// The refresh token rides a hardened cookie, never the JSON body.
	cookie := findCookie(t, recorder.Result().Cookies(), constants.RefreshTokenCookieName)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.NotContains(t, recorder.Body.String(), cookie.Value)
}

func findCookie(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

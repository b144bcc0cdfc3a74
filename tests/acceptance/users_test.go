package acceptance

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/playtube/user-service/internal/domain"
	"github.com/playtube/user-service/internal/dto"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func decodeEnvelope(s *Suite, body io.Reader, data any) envelope {
	var env envelope
	s.Require().NoError(json.NewDecoder(body).Decode(&env))
	if data != nil {
		s.Require().NoError(json.Unmarshal(env.Data, data))
	}
	return env
}

func (s *Suite) registerRequest(username, email, password string, withCover bool) *http.Response {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"username": username,
		"email":    email,
		"fullName": "Test User",
		"password": password,
	}
	for name, value := range fields {
		s.Require().NoError(writer.WriteField(name, value))
	}

	part, err := writer.CreateFormFile("avatar", "avatar.png")
	s.Require().NoError(err)
	_, err = part.Write([]byte("fake-png-bytes"))
	s.Require().NoError(err)

	if withCover {
		cover, err := writer.CreateFormFile("coverImage", "cover.png")
		s.Require().NoError(err)
		_, err = cover.Write([]byte("fake-png-bytes"))
		s.Require().NoError(err)
	}

	s.Require().NoError(writer.Close())

	resp, err := http.Post(s.BaseURL+"/api/v1/users/register", writer.FormDataContentType(), &buf)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) register(username, email, password string) domain.User {
	resp := s.registerRequest(username, email, password, false)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var user domain.User
	decodeEnvelope(s, resp.Body, &user)
	return user
}

func (s *Suite) login(identifier, password string) (dto.LoginResponse, []*http.Cookie) {
	body, _ := json.Marshal(dto.LoginRequest{Username: identifier, Password: password})
	resp, err := http.Post(s.BaseURL+"/api/v1/users/login", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var loginResp dto.LoginResponse
	decodeEnvelope(s, resp.Body, &loginResp)
	return loginResp, resp.Cookies()
}

func (s *Suite) authorizedRequest(method, path, accessToken string, body io.Reader) *http.Response {
	req, err := http.NewRequest(method, s.BaseURL+path, body)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) TestRegister_Success() {
	resp := s.registerRequest("Alice", "Alice@Example.com", "Password123", true)
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var user domain.User
	env := decodeEnvelope(s, resp.Body, &user)
	s.True(env.Success)
	s.Equal("alice", user.Username)
	s.Equal("alice@example.com", user.Email)
	s.NotEmpty(user.ID)
	s.Contains(user.AvatarURL, "https://cdn.test.local/images/")
	s.NotEmpty(user.CoverImageURL)
	s.Empty(user.PasswordHash)
}

func (s *Suite) TestRegister_DuplicateUsername() {
	s.register("alice", "alice@example.com", "Password123")

	resp := s.registerRequest("alice", "other@example.com", "Password123", false)
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *Suite) TestRegister_MissingAvatar() {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"fullName": "Test User",
		"password": "Password123",
	} {
		s.Require().NoError(writer.WriteField(name, value))
	}
	s.Require().NoError(writer.Close())

	resp, err := http.Post(s.BaseURL+"/api/v1/users/register", writer.FormDataContentType(), &buf)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestRegister_WeakPassword() {
	resp := s.registerRequest("alice", "alice@example.com", "password", false)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_ByUsernameAndByEmail() {
	s.register("alice", "alice@example.com", "Password123")

	byUsername, cookies := s.login("alice", "Password123")
	s.NotEmpty(byUsername.AccessToken)
	s.NotEmpty(byUsername.RefreshToken)
	s.Equal("alice", byUsername.User.Username)
	s.Empty(byUsername.User.PasswordHash)

	names := make(map[string]bool)
	for _, c := range cookies {
		names[c.Name] = true
	}
	s.True(names["accessToken"], "accessToken cookie should be set")
	s.True(names["refreshToken"], "refreshToken cookie should be set")

	body, _ := json.Marshal(dto.LoginRequest{Email: "alice@example.com", Password: "Password123"})
	resp, err := http.Post(s.BaseURL+"/api/v1/users/login", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestLogin_UnknownUser() {
	body, _ := json.Marshal(dto.LoginRequest{Username: "nobody", Password: "Password123"})
	resp, err := http.Post(s.BaseURL+"/api/v1/users/login", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestLogin_WrongPassword() {
	s.register("alice", "alice@example.com", "Password123")

	body, _ := json.Marshal(dto.LoginRequest{Username: "alice", Password: "WrongPassword123"})
	resp, err := http.Post(s.BaseURL+"/api/v1/users/login", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestCurrentUser() {
	s.register("alice", "alice@example.com", "Password123")
	loginResp, _ := s.login("alice", "Password123")

	resp := s.authorizedRequest("GET", "/api/v1/users/current-user", loginResp.AccessToken, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var user domain.User
	decodeEnvelope(s, resp.Body, &user)
	s.Equal("alice", user.Username)
	s.Empty(user.PasswordHash)
}

func (s *Suite) TestCurrentUser_NoToken() {
	resp, err := http.Get(s.BaseURL + "/api/v1/users/current-user")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestRefresh_RotationViaCookie() {
	s.register("alice", "alice@example.com", "Password123")
	loginResp, cookies := s.login("alice", "Password123")

	req, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/users/refresh-token", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var refreshResp dto.RefreshResponse
	decodeEnvelope(s, resp.Body, &refreshResp)
	s.NotEmpty(refreshResp.AccessToken)
	s.NotEqual(loginResp.RefreshToken, refreshResp.RefreshToken)

	// The pre-rotation token is spent; replaying it must fail.
	replay, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/users/refresh-token", nil)
	for _, cookie := range cookies {
		replay.AddCookie(cookie)
	}
	replayResp, err := http.DefaultClient.Do(replay)
	s.Require().NoError(err)
	defer replayResp.Body.Close()
	s.Equal(http.StatusUnauthorized, replayResp.StatusCode)
}

func (s *Suite) TestRefresh_ViaBody() {
	s.register("alice", "alice@example.com", "Password123")
	loginResp, _ := s.login("alice", "Password123")

	body, _ := json.Marshal(dto.RefreshRequest{RefreshToken: loginResp.RefreshToken})
	resp, err := http.Post(s.BaseURL+"/api/v1/users/refresh-token", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestRefresh_NoToken() {
	resp, err := http.Post(s.BaseURL+"/api/v1/users/refresh-token", "application/json", nil)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogout() {
	s.register("alice", "alice@example.com", "Password123")
	loginResp, _ := s.login("alice", "Password123")

	resp := s.authorizedRequest("POST", "/api/v1/users/logout", loginResp.AccessToken, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	// The stored refresh token is gone, so refresh is rejected.
	body, _ := json.Marshal(dto.RefreshRequest{RefreshToken: loginResp.RefreshToken})
	refreshResp, err := http.Post(s.BaseURL+"/api/v1/users/refresh-token", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer refreshResp.Body.Close()
	s.Equal(http.StatusUnauthorized, refreshResp.StatusCode)
}

func (s *Suite) TestChangePassword() {
	s.register("alice", "alice@example.com", "Password123")
	loginResp, _ := s.login("alice", "Password123")

	body, _ := json.Marshal(dto.ChangePasswordRequest{OldPassword: "WrongOld123", NewPassword: "NewPassword123"})
	wrongResp := s.authorizedRequest("POST", "/api/v1/users/change-password", loginResp.AccessToken, bytes.NewBuffer(body))
	defer wrongResp.Body.Close()
	s.Equal(http.StatusBadRequest, wrongResp.StatusCode)

	body, _ = json.Marshal(dto.ChangePasswordRequest{OldPassword: "Password123", NewPassword: "NewPassword123"})
	resp := s.authorizedRequest("POST", "/api/v1/users/change-password", loginResp.AccessToken, bytes.NewBuffer(body))
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	// Old password no longer works, the new one does.
	oldBody, _ := json.Marshal(dto.LoginRequest{Username: "alice", Password: "Password123"})
	oldLogin, err := http.Post(s.BaseURL+"/api/v1/users/login", "application/json", bytes.NewBuffer(oldBody))
	s.Require().NoError(err)
	defer oldLogin.Body.Close()
	s.Equal(http.StatusUnauthorized, oldLogin.StatusCode)

	s.login("alice", "NewPassword123")
}

func (s *Suite) TestUpdateAccount() {
	s.register("alice", "alice@example.com", "Password123")
	loginResp, _ := s.login("alice", "Password123")

	body, _ := json.Marshal(dto.UpdateAccountRequest{FullName: "Alice Renamed", Username: "alice2"})
	resp := s.authorizedRequest("PATCH", "/api/v1/users/update-account", loginResp.AccessToken, bytes.NewBuffer(body))
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var user domain.User
	decodeEnvelope(s, resp.Body, &user)
	s.Equal("Alice Renamed", user.FullName)
	s.Equal("alice2", user.Username)
}

func (s *Suite) TestUpdateAvatar() {
	s.register("alice", "alice@example.com", "Password123")
	loginResp, _ := s.login("alice", "Password123")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("avatar", "new-avatar.png")
	s.Require().NoError(err)
	_, err = part.Write([]byte("fake-png-bytes"))
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req, _ := http.NewRequest("PATCH", s.BaseURL+"/api/v1/users/avatar", &buf)
	req.Header.Set("Authorization", "Bearer "+loginResp.AccessToken)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var user domain.User
	decodeEnvelope(s, resp.Body, &user)
	s.Contains(user.AvatarURL, "new-avatar.png")
}

func (s *Suite) TestChannelProfile() {
	alice := s.register("alice", "alice@example.com", "Password123")
	bob := s.register("bob", "bob@example.com", "Password123")
	loginResp, _ := s.login("bob", "Password123")

	_, err := s.Postgres.DB.Exec(
		`INSERT INTO subscriptions (id, subscriber_id, channel_id) VALUES (gen_random_uuid(), $1, $2)`,
		bob.ID, alice.ID,
	)
	s.Require().NoError(err)

	resp := s.authorizedRequest("GET", "/api/v1/users/channel/alice", loginResp.AccessToken, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var profile domain.ChannelProfile
	decodeEnvelope(s, resp.Body, &profile)
	s.Equal("alice", profile.Username)
	s.EqualValues(1, profile.SubscriberCount)
	s.True(profile.IsSubscribed)
}

func (s *Suite) TestChannelProfile_Unknown() {
	s.register("alice", "alice@example.com", "Password123")
	loginResp, _ := s.login("alice", "Password123")

	resp := s.authorizedRequest("GET", "/api/v1/users/channel/ghost", loginResp.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestWatchHistory() {
	alice := s.register("alice", "alice@example.com", "Password123")
	bob := s.register("bob", "bob@example.com", "Password123")
	loginResp, _ := s.login("alice", "Password123")

	var videoID string
	err := s.Postgres.DB.QueryRow(
		`INSERT INTO videos (id, owner_id, title, thumbnail_url, duration_seconds)
		 VALUES (gen_random_uuid(), $1, 'first video', 'https://cdn.test.local/thumb.png', 42)
		 RETURNING id`,
		bob.ID,
	).Scan(&videoID)
	s.Require().NoError(err)

	_, err = s.Postgres.DB.Exec(
		`INSERT INTO watch_history (user_id, video_id) VALUES ($1, $2)`,
		alice.ID, videoID,
	)
	s.Require().NoError(err)

	resp := s.authorizedRequest("GET", "/api/v1/users/watch-history", loginResp.AccessToken, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var history []domain.WatchHistoryItem
	decodeEnvelope(s, resp.Body, &history)
	s.Require().Len(history, 1)
	s.Equal(videoID, history[0].VideoID)
	s.Equal("first video", history[0].Title)
	s.Equal("bob", history[0].Owner.Username)
}

func (s *Suite) TestCompleteFlow() {
	s.register("alice", "alice@example.com", "Password123")
	loginResp, cookies := s.login("alice", "Password123")

	meResp := s.authorizedRequest("GET", "/api/v1/users/current-user", loginResp.AccessToken, nil)
	meResp.Body.Close()
	s.Equal(http.StatusOK, meResp.StatusCode)

	refreshReq, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/users/refresh-token", nil)
	for _, cookie := range cookies {
		refreshReq.AddCookie(cookie)
	}
	refreshResp, err := http.DefaultClient.Do(refreshReq)
	s.Require().NoError(err)
	defer refreshResp.Body.Close()
	s.Equal(http.StatusOK, refreshResp.StatusCode)

	var rotated dto.RefreshResponse
	decodeEnvelope(s, refreshResp.Body, &rotated)

	logoutResp := s.authorizedRequest("POST", "/api/v1/users/logout", rotated.AccessToken, nil)
	logoutResp.Body.Close()
	s.Equal(http.StatusOK, logoutResp.StatusCode)
}

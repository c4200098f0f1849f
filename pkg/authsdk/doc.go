/*
Package authsdk is a Go client for the sessionauth HTTP API.

# Client vs Session

Client covers the anonymous routes: registration, login, refresh and the
health probes. A successful login yields a Session, which carries the
access and refresh token pair and signs every request with the access
token.

	client := authsdk.NewClient("https://auth.example.com")

	profile, err := client.Register(ctx, authsdk.RegisterRequest{
		Username: "alice",
		Password: "Secret1!",
	})

	session, err := client.Login(ctx, "alice", "Secret1!")

	me, err := session.Me(ctx)
	status, err := session.CheckPassword(ctx, "Secret1!")
	err = session.ChangePassword(ctx, "Secret1!", "Secret2!")
	err = session.SignOut(ctx)

# Token refresh

The access token lifetime is read from its exp claim. Shortly before it
expires the Session exchanges its refresh token for a new pair. Refresh
tokens are single use: a Session must not be shared with another process
that also refreshes.

	// force a rotation
	err = session.Refresh(ctx)

# Administration

Sessions whose access token carries the Admin role can reset passwords,
change roles and register users with a specific role:

	err = session.SetUserPassword(ctx, userID, "Temp123!")
	err = session.SetUserRole(ctx, userID, "Admin")

# Errors

Every non-success response is returned as *APIError with the HTTP status
and the error code from the body:

	_, err := client.Login(ctx, "alice", "wrong")
	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == authsdk.ErrorCodeInvalidCredentials {
		// bad username or password
	}
*/
package authsdk

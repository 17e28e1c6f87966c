/*
Package helpdesksdk is a Go client for the help desk HTTP API.

Client covers the public endpoints and logs in; Session carries the bearer
token for everything that needs a signed-in volunteer or coordinator.

	client := helpdesksdk.NewClient("http://localhost:3001")

	_, err := client.CreateHelpRequest(ctx, helpdesksdk.CreateHelpRequest{...})

	session, err := client.VolunteerLogin(ctx, "vera@example.org", "secret")
	available, err := session.ListHelpRequests(ctx, helpdesksdk.ViewAvailable)
	err = session.AcceptHelpRequest(ctx, available[0].ID)

Errors returned by the server come back as *APIError carrying the HTTP status
and the machine readable code.
*/
package helpdesksdk

package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// ResolveVanityURL maps a vanity name to its steam id.
func (c *Client) ResolveVanityURL(ctx context.Context, name string) (SteamID, error) {
	if !usableName(name) {
		return "", &ValidationError{Message: "Name or user id is required"}
	}

	params := url.Values{}
	params.Set("vanityurl", name)
	body, err := c.get(ctx, OpResolveVanityURL, pathResolveVanityURL, params)
	if err != nil {
		return "", err
	}

	var resp vanityResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &UpstreamLogicError{
			Operation: OpResolveVanityURL,
			Message:   fmt.Sprintf("malformed response: %v", err),
		}
	}
	if resp.Response.Success != 1 || resp.Response.SteamID == "" {
		return "", &UpstreamLogicError{Operation: OpResolveVanityURL, Message: resp.Response.Message}
	}
	return resp.Response.SteamID, nil
}

// usableName rejects the empty name and the literal "undefined" that
// browser clients send for unset variables.
func usableName(name string) bool {
	return name != "" && name != "undefined"
}

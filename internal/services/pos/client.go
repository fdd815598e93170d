package pos

import (
	"encoding/json"
	"fmt"

	"github.com/kolo/xmlrpc"
)

// Client speaks XML-RPC to the rental POS backend. Authenticate must
// succeed before any SearchRead call; the backend rejects execute_kw
// without a session uid.
type Client struct {
	database  string
	username  string
	password  string
	uid       int
	commonURL string
	objectURL string
}

// NewClient builds a client for the POS instance at url
func NewClient(url, db, username, password string) *Client {
	return &Client{
		database:  db,
		username:  username,
		password:  password,
		commonURL: fmt.Sprintf("%s/xmlrpc/2/common", url),
		objectURL: fmt.Sprintf("%s/xmlrpc/2/object", url),
	}
}

// Authenticate opens a session against the POS backend and remembers
// the uid for subsequent calls.
func (c *Client) Authenticate() (int, error) {
	client, err := xmlrpc.NewClient(c.commonURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	args := []interface{}{c.database, c.username, c.password, make([]interface{}, 0)}
	var uid int
	if err := client.Call("authenticate", args, &uid); err != nil {
		return 0, fmt.Errorf("authentication failed: %w", err)
	}

	c.uid = uid
	return uid, nil
}

// SearchRead pulls rows from a POS model (equipment catalog, contract
// feed) into result, a pointer to a slice of the target struct. The
// backend returns loosely typed maps, so rows go through a JSON
// round-trip to pick up the struct tags.
func (c *Client) SearchRead(model string, domain []interface{}, fields []string, limit, offset int, result interface{}) error {
	client, err := xmlrpc.NewClient(c.objectURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	args := []interface{}{
		c.database,
		c.uid,
		c.password,
		model,
		"search_read",
		[]interface{}{domain},
		map[string]interface{}{
			"fields": fields,
			"limit":  limit,
			"offset": offset,
		},
	}

	var rawRows []map[string]interface{}
	if err := client.Call("execute_kw", args, &rawRows); err != nil {
		return fmt.Errorf("search_read on %s failed: %w", model, err)
	}

	jsonData, err := json.Marshal(rawRows)
	if err != nil {
		return fmt.Errorf("failed to marshal %s rows: %w", model, err)
	}
	if err := json.Unmarshal(jsonData, result); err != nil {
		return fmt.Errorf("failed to decode %s rows: %w", model, err)
	}

	return nil
}

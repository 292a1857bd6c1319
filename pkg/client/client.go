package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dougsko/radio2csv/pkg/protocol"
)

// Client talks to the radio2csvd HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new client for the daemon at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// do sends a request and returns the raw body of a successful reply. Error
// replies carry a JSON response whose message is returned as the error.
func (c *Client) do(method, path string, query url.Values, body io.Reader) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequest(method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/octet-stream")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp protocol.Response
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return nil, fmt.Errorf("%s %s: %s", method, path, errResp.Error)
		}
		return nil, fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	return data, nil
}

// call sends a request whose reply is a JSON response
func (c *Client) call(method, path string, query url.Values, body io.Reader) (*protocol.Response, error) {
	data, err := c.do(method, path, query, body)
	if err != nil {
		return nil, err
	}

	var response protocol.Response
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if !response.Success {
		return nil, fmt.Errorf("%s %s: %s", method, path, response.Error)
	}
	return &response, nil
}

// extract converts one entry of the response data into out
func extract(resp *protocol.Response, key string, out interface{}) error {
	value, ok := resp.Data[key]
	if !ok {
		return fmt.Errorf("%s not found in response", key)
	}

	// Convert to JSON and back to parse properly
	valueJSON, _ := json.Marshal(value)
	if err := json.Unmarshal(valueJSON, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return nil
}

func snapshotPath(id int64) string {
	return "/api/v1/snapshots/" + strconv.FormatInt(id, 10)
}

// Ping tests the connection
func (c *Client) Ping() error {
	_, err := c.call(http.MethodGet, "/api/v1/status", nil, nil)
	return err
}

// IsConnected tests if the daemon is reachable
func (c *Client) IsConnected() bool {
	return c.Ping() == nil
}

// Status gets the daemon status
func (c *Client) Status() (*protocol.Status, error) {
	resp, err := c.call(http.MethodGet, "/api/v1/status", nil, nil)
	if err != nil {
		return nil, err
	}

	var status protocol.Status
	if err := extract(resp, "status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Models lists the radios the daemon can read
func (c *Client) Models() ([]protocol.ModelInfo, error) {
	resp, err := c.call(http.MethodGet, "/api/v1/models", nil, nil)
	if err != nil {
		return nil, err
	}

	var models []protocol.ModelInfo
	if err := extract(resp, "models", &models); err != nil {
		return nil, err
	}
	return models, nil
}

// Upload sends an image file to be detected and archived. The name decides
// whether the data is read as ICF text or raw binary.
func (c *Client) Upload(name string, data []byte) (*protocol.Snapshot, error) {
	resp, err := c.call(http.MethodPost, "/api/v1/images", url.Values{"name": {name}}, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var snap protocol.Snapshot
	if err := extract(resp, "snapshot", &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListSnapshots lists archived snapshots, newest first. An empty model
// lists every model.
func (c *Client) ListSnapshots(limit, offset int, model string) ([]protocol.Snapshot, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}
	if model != "" {
		query.Set("model", model)
	}

	resp, err := c.call(http.MethodGet, "/api/v1/snapshots", query, nil)
	if err != nil {
		return nil, err
	}

	snapshots := []protocol.Snapshot{}
	if _, ok := resp.Data["snapshots"]; !ok {
		return snapshots, nil
	}
	if err := extract(resp, "snapshots", &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// GetSnapshot gets one snapshot and its channel rows
func (c *Client) GetSnapshot(id int64) (*protocol.Snapshot, []protocol.ChannelRow, error) {
	resp, err := c.call(http.MethodGet, snapshotPath(id), nil, nil)
	if err != nil {
		return nil, nil, err
	}

	var snap protocol.Snapshot
	if err := extract(resp, "snapshot", &snap); err != nil {
		return nil, nil, err
	}
	var rows []protocol.ChannelRow
	if _, ok := resp.Data["channels"]; ok {
		if err := extract(resp, "channels", &rows); err != nil {
			return nil, nil, err
		}
	}
	return &snap, rows, nil
}

// GetCSV gets the CSV export of a snapshot
func (c *Client) GetCSV(id int64) (string, error) {
	data, err := c.do(http.MethodGet, snapshotPath(id)+"/csv", nil, nil)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetImage gets the archived image file of a snapshot, ICF text or raw
// binary as it was uploaded
func (c *Client) GetImage(id int64) ([]byte, error) {
	return c.do(http.MethodGet, snapshotPath(id)+"/image", nil, nil)
}

// Delete removes a snapshot
func (c *Client) Delete(id int64) error {
	_, err := c.call(http.MethodDelete, snapshotPath(id), nil, nil)
	return err
}

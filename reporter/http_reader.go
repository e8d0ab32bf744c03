// Reader is a testing facility to read the output of a http reporter.

package reporter

import (
	"io"
	"net/http"
	"net/url"
)

type HttpReader struct {
	serverIP   string // listen ip
	serverPort string // listen port
}

func NewHttpReader(serverIP string, serverPort string) *HttpReader {
	return &HttpReader{
		serverIP:   serverIP,
		serverPort: serverPort,
	}
}

func (hr *HttpReader) base() string {
	return "http://" + hr.serverIP + ":" + hr.serverPort
}

// get returns the status code and body of a GET on route.
func (hr *HttpReader) get(route string, query url.Values) (int, string, error) {
	u := hr.base() + route
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	resp, err := http.Get(u)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, string(body), nil
}

func (hr *HttpReader) GetHello() (string, error) {
	_, body, err := hr.get(ROUTE_HELLO, nil)
	return body, err
}

func (hr *HttpReader) GetPoa() (int, string, error) {
	return hr.get(ROUTE_POA, nil)
}

func (hr *HttpReader) GetTokens() (int, string, error) {
	return hr.get(ROUTE_TOKENS, nil)
}

func (hr *HttpReader) GetRedemptionByRequestKey(requestKey string) (int, string, error) {
	return hr.get(ROUTE_REDEMPTION, url.Values{"request_key": {requestKey}})
}

func (hr *HttpReader) GetRedemptionByAccount(account string) (int, string, error) {
	return hr.get(ROUTE_REDEMPTION, url.Values{"account": {account}})
}

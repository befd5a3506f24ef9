package netsuite

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/po-payment-schedule/internal/config"
	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

func TestBuildVendorQuery(t *testing.T) {
	q := BuildVendorQuery([]string{"V1", "O'Neil"})

	assert.Contains(t, q, "LEFT JOIN term t ON v.terms = t.id")
	assert.Contains(t, q, "IN ('V1','O''Neil')")
}

func TestFetchPurchaseOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "NLAuth test", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"success":true,"totalRecords":1,"data":[{"PO #":"1001","ID":"V1"}]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.URL, HeaderAuthorizer{Value: "NLAuth test"}, time.Second)
	raw, src, err := client.FetchPurchaseOrders(context.Background())
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"totalRecords":1`)
	require.Len(t, src.Data, 1)
	assert.Equal(t, "1001", src.Data[0].String(types.FieldPONumber))
}

func TestFetchPurchaseOrdersFailureFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"search failed"}`)
	}))
	defer srv.Close()

	_, _, err := NewClient(srv.URL, srv.URL, nil, time.Second).FetchPurchaseOrders(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidStructure))
}

func TestFetchVendors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "transient", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body["q"], "('V1','V2')")

		_, _ = io.WriteString(w, `{"items":[{"id":"7","entityid":"V1","terms":"3","companyname":"Acme","term_name":"Net 30"}],"count":1}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.URL, HeaderAuthorizer{Value: "x"}, time.Second)
	_, vendors, err := client.FetchVendors(context.Background(), []string{"V1", "V2"})
	require.NoError(t, err)
	require.Len(t, vendors.Items, 1)
	assert.Equal(t, "Net 30", vendors.Items[0].TermName.String())
}

func TestFetchVendorsNoIDs(t *testing.T) {
	client := NewClient("http://unused", "http://unused", nil, time.Second)
	_, _, err := client.FetchVendors(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoVendorIDs)
}

func TestStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"INVALID_LOGIN"}`)
	}))
	defer srv.Close()

	_, _, err := NewClient(srv.URL, srv.URL, nil, time.Second).FetchPurchaseOrders(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "INVALID_LOGIN")
}

func TestStatusErrorExcerptKeepsRunes(t *testing.T) {
	body := strings.Repeat("a", bodyExcerptLimit-1) + "é" + "tail"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()

	_, _, err := NewClient(srv.URL, srv.URL, nil, time.Second).FetchPurchaseOrders(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.True(t, utf8.ValidString(statusErr.Body))
	assert.Equal(t, strings.Repeat("a", bodyExcerptLimit-1)+"...", statusErr.Body)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt([]byte("short"), 10))
	assert.Equal(t, "ab...", excerpt([]byte("abcdef"), 2))
	assert.Equal(t, "...", excerpt([]byte("日本"), 2))
}

func TestMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>maintenance</html>`)
	}))
	defer srv.Close()

	_, _, err := NewClient(srv.URL, srv.URL, nil, time.Second).FetchPurchaseOrders(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed JSON")
}

func TestHeaderAuthorizerEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Error(t, HeaderAuthorizer{}.Authorize(req))
}

func TestNewClientFromConfig(t *testing.T) {
	_, err := NewClientFromConfig(&config.NetSuite{})
	require.Error(t, err)

	client, err := NewClientFromConfig(&config.NetSuite{
		RestletURL:    "https://example.test/restlet",
		SuiteQLURL:    "https://example.test/suiteql",
		Authorization: "OAuth abc",
	})
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, client.httpClient.Timeout)
}

package proxy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectFastest(t *testing.T) {
	t.Run("picks the minimum speed", func(t *testing.T) {
		var result DirectoryResult
		body := `{"data":[{"ip":"1.1.1.1","port":"80","protocols":["http"],"speed":5},{"ip":"2.2.2.2","port":"8080","protocols":["https"],"speed":2}]}`
		require.NoError(t, json.Unmarshal([]byte(body), &result))

		got := SelectFastest(result.Data)
		require.NotNil(t, got)
		assert.Equal(t, Record{Address: "2.2.2.2", Port: "8080", Protocols: []string{"https"}, Speed: 2}, *got)
	})

	t.Run("ties keep the first record", func(t *testing.T) {
		records := []Record{
			{Address: "a", Port: "1", Protocols: []string{"http"}, Speed: 3},
			{Address: "b", Port: "2", Protocols: []string{"http"}, Speed: 1},
			{Address: "c", Port: "3", Protocols: []string{"http"}, Speed: 1},
		}
		got := SelectFastest(records)
		require.NotNil(t, got)
		assert.Equal(t, "b", got.Address)
	})

	t.Run("empty directory", func(t *testing.T) {
		assert.Nil(t, SelectFastest(nil))
		assert.Nil(t, SelectFastest([]Record{}))
	})

	t.Run("result is a copy", func(t *testing.T) {
		records := []Record{{Address: "a", Port: "1", Speed: 1}}
		got := SelectFastest(records)
		got.Address = "changed"
		assert.Equal(t, "a", records[0].Address)
	})
}

func TestRecord_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Record
	}{
		{
			name: "string port",
			body: `{"ip":"10.0.0.1","port":"3128","protocols":["http","https"],"speed":7}`,
			want: Record{Address: "10.0.0.1", Port: "3128", Protocols: []string{"http", "https"}, Speed: 7},
		},
		{
			name: "numeric port and string speed",
			body: `{"ip":"10.0.0.2","port":8080,"protocols":["socks5"],"speed":"12"}`,
			want: Record{Address: "10.0.0.2", Port: "8080", Protocols: []string{"socks5"}, Speed: 12},
		},
		{
			name: "unknown fields ignored",
			body: `{"_id":"x","ip":"10.0.0.3","port":"80","protocols":["http"],"speed":1,"country":"DE","lastChecked":1700000000,"upTime":99.5}`,
			want: Record{Address: "10.0.0.3", Port: "80", Protocols: []string{"http"}, Speed: 1},
		},
		{
			name: "missing fields are zero",
			body: `{"country":"DE"}`,
			want: Record{},
		},
		{
			name: "blank protocols dropped",
			body: `{"ip":"10.0.0.4","port":"80","protocols":["", " https "]}`,
			want: Record{Address: "10.0.0.4", Port: "80", Protocols: []string{"https"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Record
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecord_UnmarshalJSONRejectsNonObjects(t *testing.T) {
	var r Record
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &r))
	assert.Error(t, json.Unmarshal([]byte(`"1.1.1.1"`), &r))

	var result DirectoryResult
	assert.Error(t, json.Unmarshal([]byte(`{"data":[{"ip":`), &result))
}

func TestRecord_URL(t *testing.T) {
	r := Record{Address: "2.2.2.2", Port: "8080", Protocols: []string{"HTTPS", "http"}}
	u, err := r.URL()
	require.NoError(t, err)
	assert.Equal(t, "https://2.2.2.2:8080", u.String())
	assert.Equal(t, "https://2.2.2.2:8080", r.String())

	v6 := Record{Address: "::1", Port: "3128", Protocols: []string{"http"}}
	u, err = v6.URL()
	require.NoError(t, err)
	assert.Equal(t, "http://[::1]:3128", u.String())

	for _, bad := range []Record{
		{Port: "80", Protocols: []string{"http"}},
		{Address: "1.1.1.1", Protocols: []string{"http"}},
		{Address: "1.1.1.1", Port: "80"},
	} {
		_, err := bad.URL()
		assert.ErrorIs(t, err, ErrUnusableRecord)
		assert.False(t, bad.Usable())
	}
}

func TestConfig_URL(t *testing.T) {
	t.Run("credentials attached when both present", func(t *testing.T) {
		u, err := Config{Address: "http://proxy.local:3128", Username: "u", Password: "p"}.URL()
		require.NoError(t, err)
		assert.Equal(t, "http://u:p@proxy.local:3128", u.String())
	})

	t.Run("half credentials ignored", func(t *testing.T) {
		u, err := Config{Address: "http://proxy.local:3128", Username: "u"}.URL()
		require.NoError(t, err)
		assert.Nil(t, u.User)

		u, err = Config{Address: "http://proxy.local:3128", Password: "p"}.URL()
		require.NoError(t, err)
		assert.Nil(t, u.User)
	})

	t.Run("invalid addresses", func(t *testing.T) {
		for _, addr := range []string{"", "   ", "proxy.local:3128", "://bad"} {
			_, err := Config{Address: addr}.URL()
			assert.Error(t, err, addr)
		}
	})
}

package nav

import "net/url"

// BuildParams assembles a parameter set from mixed inputs. String and string
// slice values are added as-is; nil entries are skipped.
func BuildParams(init map[string]any) url.Values {
	values := url.Values{}
	for key, raw := range init {
		switch v := raw.(type) {
		case nil:
			continue
		case string:
			values.Add(key, v)
		case []string:
			for _, item := range v {
				values.Add(key, item)
			}
		case *string:
			if v != nil {
				values.Add(key, *v)
			}
		}
	}
	return values
}

// Param reads a single named parameter from a raw query string. Malformed
// queries yield the empty string.
func Param(rawQuery, key string) string {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ""
	}
	return values.Get(key)
}

// PatchURL sets the named query parameters on a full URL. An empty new value
// deletes the parameter.
func PatchURL(rawURL string, changes map[string]string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	values := u.Query()
	for key, value := range changes {
		if value == "" {
			values.Del(key)
			continue
		}
		values.Set(key, value)
	}
	u.RawQuery = values.Encode()
	return u.String(), nil
}

package response

import (
	"encoding/json"
	"net/http"
)

const contentTypeJSON = "application/json; charset=utf-8"

// Write sends env as the JSON body. The transport status is always 200: the
// outcome of the request lives in the envelope code.
func Write[T any](w http.ResponseWriter, env Envelope[T]) error {
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(body)
	return err
}

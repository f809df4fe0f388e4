package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/crshop/attendance/internal/attendance/types"
)

var errBadBody = errors.New("invalid request body")

// decodeInput reads an InputRequest from either a JSON body or a protobuf
// Struct with an "input" string field.
func decodeInput(w http.ResponseWriter, r *http.Request) (types.InputRequest, error) {
	if isProtobuf(r) {
		var s structpb.Struct
		if err := readProto(r, &s); err != nil {
			return types.InputRequest{}, errBadBody
		}
		v, ok := s.GetFields()["input"]
		if !ok {
			return types.InputRequest{}, nil
		}
		if _, isString := v.GetKind().(*structpb.Value_StringValue); !isString {
			return types.InputRequest{}, errBadBody
		}
		return types.InputRequest{Input: v.GetStringValue()}, nil
	}

	var req types.InputRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return types.InputRequest{}, errBadBody
	}
	return req, nil
}

// respond writes v in the encoding the request arrived in.
func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if isProtobuf(r) {
		s, err := toStruct(v)
		if err != nil {
			http.Error(w, "proto convert error", http.StatusInternalServerError)
			return
		}
		writeProto(w, status, s)
		return
	}
	writeJSON(w, status, v)
}

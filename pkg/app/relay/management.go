package relay

import (
	"encoding/json"
	"fmt"
	"net/http"

	"lantern.dev/pkg/encoders/hex"
	"lantern.dev/pkg/protocol/httpauth"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/log"
)

// managementMethods are the NIP-86 methods this relay answers.
var managementMethods = []string{
	"supportedmethods",
	"banpubkey",
	"allowpubkey",
	"listbannedpubkeys",
	"listallowedpubkeys",
	"banevent",
	"allowevent",
	"listbannedevents",
	"bankind",
	"allowkind",
}

type managementRequest struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type managementResponse struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// handleManagement serves the NIP-86 relay management API: a JSON-RPC
// style POST endpoint admitting only pubkeys from the configured admin
// list, authenticated per NIP-98.
func (s *Server) handleManagement(w http.ResponseWriter, r *http.Request) {
	writeResponse := func(status int, resp *managementResponse) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		chk.E(json.NewEncoder(w).Encode(resp))
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	serviceURL := scheme + "://" + r.Host + r.URL.Path
	pubkey, err := httpauth.Validate(r, serviceURL, 0)
	if err != nil {
		writeResponse(
			http.StatusUnauthorized,
			&managementResponse{Error: err.Error()},
		)
		return
	}
	if !s.isAdmin(pubkey) {
		writeResponse(
			http.StatusForbidden,
			&managementResponse{Error: "pubkey is not a relay administrator"},
		)
		return
	}
	var req managementRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(
			http.StatusBadRequest,
			&managementResponse{Error: "malformed request: " + err.Error()},
		)
		return
	}
	log.I.F("management call %s by %0x", req.Method, pubkey)
	var result any
	if result, err = s.dispatchManagement(&req); err != nil {
		writeResponse(http.StatusOK, &managementResponse{Error: err.Error()})
		return
	}
	writeResponse(http.StatusOK, &managementResponse{Result: result})
}

func (s *Server) isAdmin(pubkey []byte) (is bool) {
	pk := hex.Enc(pubkey)
	for _, admin := range s.cfg.AdminPubkeys {
		if admin == pk {
			return true
		}
	}
	return
}

func (s *Server) dispatchManagement(req *managementRequest) (
	result any, err error,
) {
	stringParam := func(i int) (v string, err error) {
		if len(req.Params) <= i {
			return "", fmt.Errorf("%s requires %d params", req.Method, i+1)
		}
		err = json.Unmarshal(req.Params[i], &v)
		return
	}
	switch req.Method {
	case "supportedmethods":
		return managementMethods, nil
	case "banpubkey":
		var pk, why string
		if pk, err = stringParam(0); err != nil {
			return
		}
		why, _ = stringParam(1)
		s.bans.BanPubkey(pk, why)
		return true, nil
	case "allowpubkey":
		var pk string
		if pk, err = stringParam(0); err != nil {
			return
		}
		s.bans.AllowPubkey(pk)
		return true, nil
	case "listbannedpubkeys":
		return s.bans.ListBannedPubkeys(), nil
	case "listallowedpubkeys":
		return s.bans.ListAllowedPubkeys(), nil
	case "banevent":
		var id, why string
		if id, err = stringParam(0); err != nil {
			return
		}
		why, _ = stringParam(1)
		s.bans.BanEvent(id, why)
		return true, nil
	case "allowevent":
		var id string
		if id, err = stringParam(0); err != nil {
			return
		}
		s.bans.AllowEvent(id)
		return true, nil
	case "listbannedevents":
		return s.bans.ListBannedEvents(), nil
	case "bankind":
		var k float64
		if len(req.Params) < 1 {
			return nil, fmt.Errorf("bankind requires a kind number")
		}
		if err = json.Unmarshal(req.Params[0], &k); err != nil {
			return
		}
		s.bans.BlockKind(uint16(k))
		return true, nil
	case "allowkind":
		var k float64
		if len(req.Params) < 1 {
			return nil, fmt.Errorf("allowkind requires a kind number")
		}
		if err = json.Unmarshal(req.Params[0], &k); err != nil {
			return
		}
		s.bans.AllowKind(uint16(k))
		return true, nil
	default:
		return nil, fmt.Errorf("unsupported method %q", req.Method)
	}
}

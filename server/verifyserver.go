package server

import (
	"encoding/json"
	"net/http"

	"github.com/minio/mux"

	"github.com/fedsign/fedsign/constants"
	"github.com/fedsign/fedsign/middleware"
	"github.com/fedsign/fedsign/requestctx"
	"github.com/fedsign/fedsign/sigv4"
	"github.com/fedsign/fedsign/utils"
)

//A server that verifies the SigV4 authentication material of whatever
//request reaches it and reports back what it concluded. It exists to check
//signing implementations against: anything that signs correctly gets a 200,
//anything else gets denied by the authentication middleware.
type VerificationServer struct {
	port int

	//The hostname at which the server is reachable
	hostname string

	//The TLS certificate used to encrypt traffic with if omitted HTTP server will be spawned
	tlsCertFilePath string

	//The TLS key used to encrypt traffic with if omitted HTTP server will be spawned
	tlsKeyFilePath string

	router *mux.Router
}

func NewVerificationServer(
	port int,
	hostname string,
	tlsCertFilePath string,
	tlsKeyFilePath string,
	deriver sigv4.SecretDeriver,
	authOptions *middleware.AuthenticationOptions,
) *VerificationServer {
	s := &VerificationServer{
		port:            port,
		hostname:        hostname,
		tlsCertFilePath: tlsCertFilePath,
		tlsKeyFilePath:  tlsKeyFilePath,
	}
	authn := middleware.SigV4AuthN(deriver, authOptions)

	router := mux.NewRouter().SkipClean(true).UseEncodedPath()
	vRouter := router.NewRoute().PathPrefix("/").Subrouter()
	vRouter.Methods(http.MethodGet).Queries(
		constants.AmzAlgorithmKey, "{alg:.*}",
		constants.AmzSignatureKey, "{sig:.*}",
	).HandlerFunc(middleware.Chain(s.reportVerified, authn))
	vRouter.NewRoute().HandlerFunc(middleware.Chain(s.reportVerified, authn))
	s.router = router
	return s
}

func (s *VerificationServer) GetPort() int {
	return s.port
}

func (s *VerificationServer) GetListenHost() string {
	return s.hostname
}

func (s *VerificationServer) GetTls() (enabled bool, certFile string, keyFile string) {
	enabled = true
	if s.tlsCertFilePath == "" {
		enabled = false
	} else if s.tlsKeyFilePath == "" {
		enabled = false
	}
	return enabled, s.tlsCertFilePath, s.tlsKeyFilePath
}

func (s *VerificationServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type verificationReport struct {
	Verified  bool   `json:"verified"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	RequestID string `json:"requestId,omitempty"`
}

//Only reachable once the authentication middleware let the request through.
func (s *VerificationServer) reportVerified(w http.ResponseWriter, r *http.Request) {
	report := verificationReport{
		Verified:  true,
		Method:    r.Method,
		Path:      r.URL.Path,
		RequestID: requestctx.GetRequestID(r.Context()),
	}
	body, err := json.Marshal(report)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	utils.WriteButLogOnError(r.Context(), w, body)
}

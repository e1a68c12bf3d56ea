package gateway_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/webcode-dev/webcode/internal/config"
	"github.com/webcode-dev/webcode/internal/gateway"
	"github.com/webcode-dev/webcode/internal/theme"
	"github.com/webcode-dev/webcode/pkg/client"
	"github.com/webcode-dev/webcode/pkg/types"
)

var _ = Describe("Gateway", func() {
	var (
		srv     *gateway.Server
		httpSrv *httptest.Server
	)

	BeforeEach(func() {
		appRoot, err := os.MkdirTemp("", "webcode-approot-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { os.RemoveAll(appRoot) })

		Expect(os.MkdirAll(filepath.Join(appRoot, "out"), 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(appRoot, "out", "workbench.js"), []byte("void 0;"), 0o644)).To(Succeed())

		cfg := config.Default()
		cfg.AppRoot = appRoot
		cfg.ConnectionToken = "integration-token"

		srv, err = gateway.New(cfg, nil, theme.Static{Colors: theme.DefaultColors()})
		Expect(err).NotTo(HaveOccurred())

		httpSrv = httptest.NewServer(srv.Router())
		DeferCleanup(httpSrv.Close)
	})

	Describe("bootstrap page", func() {
		It("serves HTML with a CSP header and token cookie", func() {
			resp, err := http.Get(httpSrv.URL + "/")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal("text/html"))
			Expect(resp.Header.Get("Content-Security-Policy")).To(ContainSubstring("'sha256-"))
			Expect(resp.Header.Get("Set-Cookie")).To(ContainSubstring("vscode-tkn=integration-token"))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("data-settings"))
		})

		It("upgrades a token query parameter into a cookie", func() {
			httpClient := &http.Client{
				CheckRedirect: func(*http.Request, []*http.Request) error {
					return http.ErrUseLastResponse
				},
			}
			resp, err := httpClient.Get(httpSrv.URL + "/?tkn=SECRET&keep=1")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusFound))
			Expect(resp.Header.Get("Location")).To(Equal("/?keep=1"))
			Expect(resp.Header.Get("Set-Cookie")).To(ContainSubstring("vscode-tkn=SECRET"))
		})
	})

	Describe("static assets", func() {
		It("round-trips the weak validator", func() {
			resp, err := http.Get(httpSrv.URL + "/static/out/workbench.js")
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			etag := resp.Header.Get("Etag")
			Expect(etag).To(HavePrefix(`W/"`))

			req, err := http.NewRequest(http.MethodGet, httpSrv.URL+"/static/out/workbench.js", nil)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("If-None-Match", etag)
			resp, err = http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNotModified))
		})
	})

	Describe("callback protocol", func() {
		It("delivers a registered URI to the poller exactly once", func(ctx SpecContext) {
			register := func() {
				resp, err := http.Get(httpSrv.URL + "/callback?vscode-requestId=req-1&vscode-scheme=webcode&vscode-path=%2Fauth&code=ok")
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
			}

			// Poller starts before the browser lands.
			poller := &client.Poller{
				BaseURL:         httpSrv.URL,
				InitialInterval: 20 * time.Millisecond,
			}
			done := make(chan *types.URIComponents, 1)
			go func() {
				defer GinkgoRecover()
				awaitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
				defer cancel()
				uri, err := poller.Await(awaitCtx, "req-1")
				Expect(err).NotTo(HaveOccurred())
				done <- uri
			}()

			time.Sleep(100 * time.Millisecond)
			register()

			var uri *types.URIComponents
			Eventually(done, "10s").Should(Receive(&uri))
			Expect(uri.Scheme).To(Equal("webcode"))
			Expect(uri.Path).To(Equal("/auth"))
			Expect(uri.Query).To(Equal("code=ok"))

			// Consumed: a direct fetch now reports null.
			resp, err := http.Get(httpSrv.URL + "/fetch-callback?vscode-requestId=req-1")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			var second *types.URIComponents
			Expect(json.NewDecoder(resp.Body).Decode(&second)).To(Succeed())
			Expect(second).To(BeNil())
		}, SpecTimeout(30*time.Second))
	})

	Describe("manifest", func() {
		It("builds icon URLs from forwarded headers", func() {
			req, err := http.NewRequest(http.MethodGet, httpSrv.URL+"/manifest.json", nil)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("X-Forwarded-Host", "editor.example:8443")
			req.Header.Set("X-Forwarded-Proto", "https")

			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			var m struct {
				Icons []struct {
					Src string `json:"src"`
				} `json:"icons"`
			}
			Expect(json.NewDecoder(resp.Body).Decode(&m)).To(Succeed())
			Expect(m.Icons).To(HaveLen(2))
			Expect(m.Icons[0].Src).To(Equal("https://editor.example:8443/code-192.png"))
		})
	})
})

package auth_test

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openlabs-org/labops/auth"
)

var secret = []byte("test-secret")

func signToken(subject string, roles []string, expiresAt time.Time) string {
	claims := auth.Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	Expect(err).ToNot(HaveOccurred())
	return token
}

func newEchoContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

var _ = Describe("JwtAuthenticator", func() {
	var authenticator auth.Authenticator

	BeforeEach(func() {
		authenticator = auth.NewJwtAuthenticator(secret)
	})

	It("accepts a valid token and sets the auth data", func() {
		ec := newEchoContext()
		token := signToken("user-1", []string{auth.RoleSupervisor}, time.Now().Add(time.Hour))

		valid, err := authenticator.ValidateAndSetAuthData(token, ec)
		Expect(err).ToNot(HaveOccurred())
		Expect(valid).To(BeTrue())

		authData := auth.GetAuthData(ec.Request().Context())
		Expect(authData).ToNot(BeNil())
		Expect(authData.SubjectId).To(Equal("user-1"))
		Expect(auth.IsSupervisor(authData)).To(BeTrue())
	})

	It("rejects an expired token", func() {
		ec := newEchoContext()
		token := signToken("user-1", nil, time.Now().Add(-time.Hour))

		valid, err := authenticator.ValidateAndSetAuthData(token, ec)
		Expect(err).To(MatchError(auth.ErrUnauthenticated))
		Expect(valid).To(BeFalse())
	})

	It("rejects a token signed with a different secret", func() {
		ec := newEchoContext()
		claims := jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
		Expect(err).ToNot(HaveOccurred())

		valid, err := authenticator.ValidateAndSetAuthData(token, ec)
		Expect(err).To(MatchError(auth.ErrUnauthenticated))
		Expect(valid).To(BeFalse())
	})

	It("rejects a token without a subject", func() {
		ec := newEchoContext()
		token := signToken("", nil, time.Now().Add(time.Hour))

		valid, err := authenticator.ValidateAndSetAuthData(token, ec)
		Expect(err).To(MatchError(auth.ErrUnauthenticated))
		Expect(valid).To(BeFalse())
	})
})

var _ = Describe("CachingAuthenticator", func() {
	It("serves repeated validations from the cache", func() {
		calls := 0
		delegate := authenticatorFunc(func(token string, ec echo.Context) (bool, error) {
			calls++
			auth.SetAuthData(ec, &auth.Auth{SubjectId: "user-1"})
			return true, nil
		})

		caching, err := auth.NewCachingAuthenticator(10, time.Minute, delegate, func(a *auth.Auth) bool { return a != nil })
		Expect(err).ToNot(HaveOccurred())

		for i := 0; i < 3; i++ {
			ec := newEchoContext()
			valid, err := caching.ValidateAndSetAuthData("token", ec)
			Expect(err).ToNot(HaveOccurred())
			Expect(valid).To(BeTrue())
			Expect(auth.GetAuthData(ec.Request().Context()).SubjectId).To(Equal("user-1"))
		}

		Expect(calls).To(Equal(1))
	})

	It("expires cached entries", func() {
		calls := 0
		delegate := authenticatorFunc(func(token string, ec echo.Context) (bool, error) {
			calls++
			auth.SetAuthData(ec, &auth.Auth{SubjectId: "user-1"})
			return true, nil
		})

		caching, err := auth.NewCachingAuthenticator(10, -time.Second, delegate, func(a *auth.Auth) bool { return a != nil })
		Expect(err).ToNot(HaveOccurred())

		for i := 0; i < 2; i++ {
			_, err := caching.ValidateAndSetAuthData("token", newEchoContext())
			Expect(err).ToNot(HaveOccurred())
		}

		Expect(calls).To(Equal(2))
	})
})

var _ = Describe("AuthMiddleware", func() {
	newHandler := func(authenticator auth.Authenticator, opts auth.AuthMiddlewareOpts) echo.HandlerFunc {
		next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
		return auth.NewAuthMiddleware(authenticator, opts)(next)
	}

	It("rejects requests without a token", func() {
		authenticator := auth.NewJwtAuthenticator(secret)
		ec := newEchoContext()

		err := newHandler(authenticator, auth.AuthMiddlewareOpts{})(ec)
		Expect(err).To(HaveOccurred())
		Expect(err.(*echo.HTTPError).Code).To(Equal(http.StatusBadRequest))
	})

	It("rejects requests with an invalid token", func() {
		authenticator := auth.NewJwtAuthenticator(secret)
		ec := newEchoContext()
		ec.Request().Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")

		err := newHandler(authenticator, auth.AuthMiddlewareOpts{})(ec)
		Expect(err).To(HaveOccurred())
		Expect(err.(*echo.HTTPError).Code).To(Equal(http.StatusUnauthorized))
	})

	It("passes requests with a valid token through", func() {
		authenticator := auth.NewJwtAuthenticator(secret)
		ec := newEchoContext()
		token := signToken("user-1", []string{auth.RoleOperator}, time.Now().Add(time.Hour))
		ec.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+token)

		err := newHandler(authenticator, auth.AuthMiddlewareOpts{})(ec)
		Expect(err).ToNot(HaveOccurred())
	})

	It("skips authentication when the skipper matches", func() {
		authenticator := auth.NewJwtAuthenticator(secret)
		ec := newEchoContext()

		opts := auth.AuthMiddlewareOpts{Skipper: func(echo.Context) bool { return true }}
		err := newHandler(authenticator, opts)(ec)
		Expect(err).ToNot(HaveOccurred())
	})
})

type authenticatorFunc func(token string, ec echo.Context) (bool, error)

func (f authenticatorFunc) ValidateAndSetAuthData(token string, ec echo.Context) (bool, error) {
	return f(token, ec)
}

package api

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oseayemenre/bookstore/internal/models"
)

const (
	captchaLength = 5
	captchaTTL    = 5 * time.Minute
	// No 0/O or 1/l/I.
	captchaAlphabet = "23456789abcdefghjkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
)

func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))

	if err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}

	return int(v.Int64())
}

func newCaptchaText() string {
	b := make([]byte, captchaLength)

	for i := range b {
		b[i] = captchaAlphabet[randomInt(len(captchaAlphabet))]
	}

	return string(b)
}

func renderCaptchaSVG(text string) string {
	var sb strings.Builder

	width, height := 150, 50

	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, width, height, width, height)
	fmt.Fprintf(&sb, `<rect width="100%%" height="100%%" fill="#f0f0f0"/>`)

	for i := 0; i < 4; i++ {
		fmt.Fprintf(&sb, `<path d="M%d %d L%d %d" stroke="#%06x" stroke-width="1"/>`,
			randomInt(width), randomInt(height), randomInt(width), randomInt(height), randomInt(0xaaaaaa))
	}

	for i, c := range text {
		x := 15 + i*26
		y := 32 + randomInt(10) - 5
		rotate := randomInt(40) - 20

		fmt.Fprintf(&sb, `<text x="%d" y="%d" font-family="monospace" font-size="28" fill="#%06x" transform="rotate(%d %d %d)">%c</text>`,
			x, y, randomInt(0x777777), rotate, x, y, c)
	}

	sb.WriteString(`</svg>`)

	return sb.String()
}

// HandleGetCaptcha godoc
//
//	@Summary		Get a captcha challenge
//	@Tags			users
//	@Produce		json
//	@Success		200	{object}	models.HandleCaptchaResponse
//	@Failure		500	{object}	models.ErrorResponse
//	@Router			/api/user/captcha [get]
func (a *Api) HandleGetCaptcha(w http.ResponseWriter, r *http.Request) {
	captcha := &models.Captcha{
		Id:         uuid.NewString(),
		Text:       newCaptchaText(),
		Expires_at: time.Now().UTC().Add(captchaTTL),
	}

	if err := a.store.SaveCaptcha(r.Context(), captcha); err != nil {
		a.logger.Error(err.Error(), "service", "HandleGetCaptcha")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, &models.HandleCaptchaResponse{
		Captcha_id: captcha.Id,
		Svg:        renderCaptchaSVG(captcha.Text),
	})
}

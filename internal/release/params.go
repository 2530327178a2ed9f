package release

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"

	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/flotilla/internal/config"
	"github.com/imamik/flotilla/internal/errdefs"
)

// Parameter keys of the strategy environment, in the order they are
// emitted.
const (
	KeyEMAPeriods          = "EMA_PERIODS"
	KeyBuyFraction         = "BUY_FRACTION"
	KeySellFraction        = "SELL_FRACTION"
	KeyStopLoss            = "STOP_LOSS"
	KeyCooldownSeconds     = "COOLDOWN_SECONDS"
	KeyBuyTargetSeconds    = "BUY_TARGET_SECONDS"
	KeySellTargetSeconds   = "SELL_TARGET_SECONDS"
	KeyRMMISeconds         = "RMMI_SECONDS"
	KeyConcentrationLimit  = "CONCENTRATION_LIMIT"
	KeyProbabilisticBuying = "PROBABILISTIC_BUYING"
)

// EnvVars validates the parameter table and expands it into environment
// entries, one per key, each quoted as a string regardless of source type.
// The enumerated keys come first in declaration order, then any extra keys
// sorted for determinism. A missing or out-of-range value fails before any
// entry is emitted.
func EnvVars(p config.Params) ([]corev1.EnvVar, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}

	vars := []corev1.EnvVar{
		{Name: KeyEMAPeriods, Value: strconv.Itoa(*p.EMAPeriods)},
		{Name: KeyBuyFraction, Value: formatFloat(*p.BuyFraction)},
		{Name: KeySellFraction, Value: formatFloat(*p.SellFraction)},
		{Name: KeyStopLoss, Value: formatFloat(*p.StopLoss)},
		{Name: KeyCooldownSeconds, Value: strconv.Itoa(*p.CooldownSeconds)},
		{Name: KeyBuyTargetSeconds, Value: strconv.Itoa(*p.BuyTargetSeconds)},
		{Name: KeySellTargetSeconds, Value: strconv.Itoa(*p.SellTargetSeconds)},
		{Name: KeyRMMISeconds, Value: strconv.Itoa(*p.RMMISeconds)},
		{Name: KeyConcentrationLimit, Value: formatFloat(*p.ConcentrationLimit)},
		{Name: KeyProbabilisticBuying, Value: strconv.Itoa(*p.ProbabilisticBuying)},
	}

	extraKeys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		vars = append(vars, corev1.EnvVar{Name: k, Value: p.Extra[k]})
	}

	return vars, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// validateParams enforces the enumerated key set and its documented
// ranges. Every failure is a configuration error raised before any
// environment entry exists.
func validateParams(p config.Params) error {
	required := []struct {
		key string
		set bool
	}{
		{KeyEMAPeriods, p.EMAPeriods != nil},
		{KeyBuyFraction, p.BuyFraction != nil},
		{KeySellFraction, p.SellFraction != nil},
		{KeyStopLoss, p.StopLoss != nil},
		{KeyCooldownSeconds, p.CooldownSeconds != nil},
		{KeyBuyTargetSeconds, p.BuyTargetSeconds != nil},
		{KeySellTargetSeconds, p.SellTargetSeconds != nil},
		{KeyRMMISeconds, p.RMMISeconds != nil},
		{KeyConcentrationLimit, p.ConcentrationLimit != nil},
		{KeyProbabilisticBuying, p.ProbabilisticBuying != nil},
	}
	for _, r := range required {
		if !r.set {
			return errdefs.Configuration("missing required parameter %s", r.key)
		}
	}

	if *p.EMAPeriods < 1 {
		return errdefs.Configuration("%s must be at least 1, got %d", KeyEMAPeriods, *p.EMAPeriods)
	}
	for _, f := range []struct {
		key string
		val float64
	}{
		{KeyBuyFraction, *p.BuyFraction},
		{KeySellFraction, *p.SellFraction},
		{KeyConcentrationLimit, *p.ConcentrationLimit},
	} {
		if f.val <= 0 || f.val > 1 {
			return errdefs.Configuration("%s must be in (0, 1], got %s", f.key, formatFloat(f.val))
		}
	}
	if *p.StopLoss <= 0 {
		return errdefs.Configuration("%s must be positive, got %s", KeyStopLoss, formatFloat(*p.StopLoss))
	}
	for _, s := range []struct {
		key string
		val int
	}{
		{KeyCooldownSeconds, *p.CooldownSeconds},
		{KeyBuyTargetSeconds, *p.BuyTargetSeconds},
		{KeySellTargetSeconds, *p.SellTargetSeconds},
		{KeyRMMISeconds, *p.RMMISeconds},
	} {
		if s.val < 0 {
			return errdefs.Configuration("%s must not be negative, got %d", s.key, s.val)
		}
	}
	if v := *p.ProbabilisticBuying; v != 0 && v != 1 {
		return errdefs.Configuration("%s must be 0 or 1, got %d", KeyProbabilisticBuying, v)
	}
	return nil
}

// ParamsHash returns the content hash of the expanded environment block.
// Identical parameters always produce an identical hash, letting the
// orchestration layer detect no-op redeploys from the annotation alone.
func ParamsHash(vars []corev1.EnvVar) string {
	h := sha256.New()
	for _, v := range vars {
		fmt.Fprintf(h, "%s=%s\n", v.Name, v.Value)
	}
	return hex.EncodeToString(h.Sum(nil))
}

package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(t *testing.T, offset time.Duration) *time.Time {
	t.Helper()
	v := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(offset)
	return &v
}

var evalNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// isExpired se deriva de expiresAt contra now; el flag almacenado no se toca.
func TestEntitlement_ExpiradoSeDerivasinEscribir(t *testing.T) {
	om := &OrgModule{IsEnabled: true, ExpiresAt: ts(t, -24*time.Hour)}

	e := om.Entitlement(evalNow)

	assert.True(t, e.IsExpired, "expiresAt en el pasado debe derivar isExpired=true")
	assert.False(t, e.Usable, "un módulo expirado no es usable aunque isEnabled=true")
	assert.True(t, om.IsEnabled, "la evaluación no debe mutar el flag almacenado")
}

func TestEntitlement_ActivoSinVencimiento(t *testing.T) {
	om := &OrgModule{IsEnabled: true, Plan: PlanPro}

	e := om.Entitlement(evalNow)

	assert.False(t, e.IsExpired)
	assert.False(t, e.IsTrial)
	assert.True(t, e.Usable)
}

func TestEntitlement_TrialVigente(t *testing.T) {
	om := &OrgModule{IsEnabled: true, TrialEndsAt: ts(t, 7*24*time.Hour)}

	e := om.Entitlement(evalNow)

	assert.True(t, e.IsTrial)
	assert.True(t, e.Usable)
}

// trialEndsAt exactamente en now todavía cuenta como trial vigente (>= now).
func TestEntitlement_TrialTerminaJustoAhora(t *testing.T) {
	om := &OrgModule{IsEnabled: true, TrialEndsAt: &evalNow}

	assert.True(t, om.Entitlement(evalNow).IsTrial)
}

func TestEntitlement_TrialVencidoNoEsTrial(t *testing.T) {
	om := &OrgModule{IsEnabled: true, TrialEndsAt: ts(t, -time.Hour)}

	e := om.Entitlement(evalNow)

	assert.False(t, e.IsTrial)
	// El vencimiento del trial no deshabilita: isEnabled sigue gobernando.
	assert.True(t, e.Usable)
}

func TestEntitlement_DeshabilitadoNuncaUsable(t *testing.T) {
	om := &OrgModule{IsEnabled: false}

	assert.False(t, om.Entitlement(evalNow).Usable)
}

func TestNeedsTrialActivation(t *testing.T) {
	futuro := ts(t, 48*time.Hour)
	pasado := ts(t, -48*time.Hour)

	assert.True(t, (&OrgModule{IsEnabled: false, TrialEndsAt: futuro}).NeedsTrialActivation(evalNow),
		"trial vigente sin habilitar requiere activación perezosa")
	assert.False(t, (&OrgModule{IsEnabled: true, TrialEndsAt: futuro}).NeedsTrialActivation(evalNow),
		"ya habilitado no requiere activación")
	assert.False(t, (&OrgModule{IsEnabled: false, TrialEndsAt: pasado}).NeedsTrialActivation(evalNow),
		"trial vencido nunca se activa")
	assert.False(t, (&OrgModule{IsEnabled: false}).NeedsTrialActivation(evalNow),
		"sin trial no hay nada que activar")
}

func TestRole_ModuleKey(t *testing.T) {
	global := &Role{Key: RoleOwner}
	scoped := &Role{Key: "hr.manager"}

	assert.Equal(t, "", global.ModuleKey(), "rol sin punto es global")
	assert.Equal(t, "hr", scoped.ModuleKey())
}

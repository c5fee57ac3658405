package referral

import (
	"testing"

	"Exchange/internal/constants"
)

func TestInitIsIdempotent(t *testing.T) {
	l := NewLedger()
	l.Init(100)

	if _, ok := l.Get(100); !ok {
		t.Fatal("запись не создана после Init")
	}

	// Повторный Init не должен обнулять накопленное.
	l.Init(200)
	l.AttachReferrer(100, 200)
	l.Reward(200, 100)
	l.Init(200)

	rec, _ := l.Get(200)
	if rec.Balance != constants.REFERRAL_REWARD_USDT || rec.ReferredCount != 1 {
		t.Errorf("повторный Init изменил запись: %+v", rec)
	}
}

func TestAttachReferrerIdempotent(t *testing.T) {
	l := NewLedger()
	l.Init(1)
	l.Init(2)

	if !l.AttachReferrer(2, 1) {
		t.Fatal("первая привязка должна пройти")
	}
	first, _ := l.Get(2)

	if l.AttachReferrer(2, 1) {
		t.Error("повторная привязка не должна сообщать об изменении")
	}
	second, _ := l.Get(2)
	if first != second {
		t.Errorf("повторная привязка изменила запись: %+v != %+v", first, second)
	}
}

func TestAttachReferrerRejectsSelfReferral(t *testing.T) {
	l := NewLedger()
	l.Init(5)
	if l.AttachReferrer(5, 5) {
		t.Error("чат не может быть собственным пригласившим")
	}
	if rec, _ := l.Get(5); rec.ReferrerID != 0 {
		t.Errorf("самопривязка мутировала запись: %+v", rec)
	}
}

func TestAttachReferrerRequiresKnownReferrer(t *testing.T) {
	l := NewLedger()
	l.Init(2)
	if l.AttachReferrer(2, 999) {
		t.Error("привязка к неизвестному пригласившему должна быть no-op")
	}
}

func TestAttachReferrerNeverOverwrites(t *testing.T) {
	l := NewLedger()
	l.Init(1)
	l.Init(2)
	l.Init(3)
	l.AttachReferrer(3, 1)
	if l.AttachReferrer(3, 2) {
		t.Error("пригласивший перезаписан")
	}
	if rec, _ := l.Get(3); rec.ReferrerID != 1 {
		t.Errorf("ReferrerID = %d, want 1", rec.ReferrerID)
	}
}

func TestRewardIsGrantedExactlyOnce(t *testing.T) {
	l := NewLedger()
	l.Init(1)
	l.Init(2)
	l.AttachReferrer(2, 1)

	amount, ok := l.Reward(1, 2)
	if !ok || amount != constants.REFERRAL_REWARD_USDT {
		t.Fatalf("первое начисление: amount=%v ok=%v", amount, ok)
	}

	// Любой последующий вызов для того же приглашенного — no-op.
	for i := 0; i < 3; i++ {
		if _, ok := l.Reward(1, 2); ok {
			t.Fatal("повторное начисление за того же приглашенного")
		}
	}

	rec, _ := l.Get(1)
	if rec.Balance != constants.REFERRAL_REWARD_USDT {
		t.Errorf("Balance = %v, want %v", rec.Balance, constants.REFERRAL_REWARD_USDT)
	}
	if rec.ReferredCount != 1 {
		t.Errorf("ReferredCount = %d, want 1", rec.ReferredCount)
	}
}

func TestRewardUnknownReferrerIsNoop(t *testing.T) {
	l := NewLedger()
	l.Init(2)
	if _, ok := l.Reward(777, 2); ok {
		t.Error("начисление несуществующему пригласившему")
	}
}

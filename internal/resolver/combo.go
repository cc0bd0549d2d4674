package resolver

// ChangeSign applies a combo direction sign to a resolved value. Sign +1
// passes the value through; -1 negates it (1 - v). Null propagates.
// Directions are validated at the ingestion boundary, so any other sign is a
// programming error.
func ChangeSign(v Value, sign int) Value {
	if sign != 1 && sign != -1 {
		panic("resolver: direction sign must be -1 or 1")
	}
	if !v.OK {
		return Null
	}
	if sign == -1 {
		return Some(1 - v.F)
	}
	return v
}

// ComboValue composes two constituent outcomes into the combo outcome:
// sign-flip each, then multiply. With outcomes in {0, 1} the product is the
// logical AND; null on either side yields null.
func ComboValue(v0 Value, s0 int, v1 Value, s1 int) Value {
	return ChangeSign(v0, s0).Mul(ChangeSign(v1, s1))
}

package pkey

import "fmt"

// CheckSignatureAlgorithm fails with ErrKeyMismatch unless alg belongs to the
// variant's family. RSA and RSA-PSS keys are never interchangeable here even
// though both are RSA underneath.
func CheckSignatureAlgorithm(v Variant, alg SignatureAlgorithm) error {
	if family := alg.Family(); family == VariantUnknown || family != v {
		return fmt.Errorf("%w: %s signature with %s key", ErrKeyMismatch, alg, v)
	}
	return nil
}

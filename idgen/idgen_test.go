package idgen_test

import (
	"smartmethods/idgen"
	"testing"

	. "github.com/onsi/gomega"
)

func TestNextID(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should generate increasing ids", func(t *testing.T) {
		w := idgen.NewWorker()
		Expect(w).ToNot(BeNil())
		id1 := idgen.NextID(w)
		id2 := idgen.NextID(w)
		Expect(id1).ToNot(BeZero())
		Expect(id2 > id1).To(BeTrue())
	})
}

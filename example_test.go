package switchboard_test

import (
	"context"
	"fmt"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ops"
	"github.com/aretw0/switchboard/pkg/value"
)

// Operations can be executed directly against a domain table without any service.
func Example() {
	table := ops.Numeric()

	req := domain.NewRequest("divide", []value.Value{value.Int(144), value.Int(12)}, nil)
	out, err := table.Execute(context.Background(), req)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(out.Text())
	// Output: 12
}

// Package gen generates the static metamodel of a categorized domain model.
//
// For every entity, mapped superclass and embeddable the generator writes a
// Go file holding string constants for the class name, the entity name, the
// super class and each attribute, plus the ordered attribute list and the
// nature of each attribute:
//
//	// Static metamodel of the entity zoo.Dog.
//	const (
//		// DogClassName is the class name of the entity.
//		DogClassName = "zoo.Dog"
//		// DogEntityName is the name the entity is queried by.
//		DogEntityName = "Dog"
//		// DogSuperClass is the class name of the super type.
//		DogSuperClass = "zoo.Animal"
//	)
//
//	const (
//		// DogAttrBreed names the basic attribute breed.
//		DogAttrBreed = "breed"
//	)
//
// The constants are meant to be passed to the criteria builder instead of
// string literals. A hierarchies.go file indexes the hierarchies by root
// entity.
//
// Files are rendered with jennifer and formatted with goimports, in
// parallel on a bounded number of workers.
package gen
